package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/apiwiz/task-system/internal/api/handler"
	"github.com/apiwiz/task-system/internal/api/middleware"
	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
	"github.com/apiwiz/task-system/internal/core/service"
	"github.com/apiwiz/task-system/internal/core/token"
	mongodb "github.com/apiwiz/task-system/internal/infrastructure/db/mongo"
	redisdb "github.com/apiwiz/task-system/internal/infrastructure/db/redis"
)

// publicPrefixes lists the route prefixes exempt from the authentication gate.
// Checked before any token parsing.
var publicPrefixes = []string{
	"/api/auth/signup",
	"/api/auth/login",
	"/health",
	"/metrics",
}

// Config carries the settings the router needs from the process configuration.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg Config, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("taskapi"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	denylist := redisdb.NewTokenDenylist(rdb, tokens.TTL())

	authService := service.NewAuthService(userRepo, roleRepo, tokens, denylist, audit, log)
	taskService := service.NewTaskService(taskRepo, userRepo, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	e.Use(middleware.Auth(tokens, denylist, publicPrefixes, log))

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.PUT("/assign-admin/:userId", authHandler.AssignAdmin,
		middleware.RequireRoles(domain.RoleSuperAdmin))

	// --- Task routes ---
	tasks := e.Group("/api/tasks")
	tasks.POST("/create", taskHandler.Create,
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin))
	tasks.GET("/user/:userId", taskHandler.ListByUser,
		middleware.RequireRolesOrSelf("userId", domain.RoleAdmin, domain.RoleSuperAdmin))
	tasks.PUT("/update/:taskId", taskHandler.Update,
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin))
	tasks.DELETE("/delete/:taskId", taskHandler.Delete,
		middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin))

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
