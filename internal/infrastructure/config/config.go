package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Seed  SeedConfig

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=task_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SeedConfig holds the bootstrap SUPER_ADMIN credentials, seeded only when no
// users exist yet. Override both values in any real deployment.
type SeedConfig struct {
	SuperAdminEmail    string `env:"SEED_SUPER_ADMIN_EMAIL,    default=superadmin@gmail.com"`
	SuperAdminPassword string `env:"SEED_SUPER_ADMIN_PASSWORD, default=password123"`
}

// Load reads configuration from environment variables using go-envconfig.
// A missing JWT_SECRET is fatal: token verification cannot run without it.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
