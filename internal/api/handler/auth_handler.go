package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apiwiz/task-system/internal/api/metrics"
	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
)

// AuthHandler handles signup, login, and role assignment.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new user account with the USER role.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "Successfully created new account", toUserResponse(profile))
}

// Login authenticates an account and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return respond(c, http.StatusOK, "Login Success", loginResponse{
		ID:        result.Profile.ID,
		FirstName: result.Profile.FirstName,
		LastName:  result.Profile.LastName,
		Email:     result.Profile.Email,
		JWT:       result.Token,
	})
}

// AssignAdmin promotes the target user to ADMIN.
//
// @Summary      Assign the ADMIN role to a user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Target user id"
// @Success      200     {object}  envelope
// @Failure      403     {object}  envelope
// @Failure      404     {object}  envelope
// @Router       /api/auth/assign-admin/{userId} [put]
func (h *AuthHandler) AssignAdmin(c echo.Context) error {
	if err := h.authService.AssignAdmin(c.Request().Context(), c.Param("userId")); err != nil {
		return err
	}
	metrics.RoleAssignmentsTotal.Inc()

	return respond(c, http.StatusOK, "Role changed to ADMIN", nil)
}

func toUserResponse(p *ports.UserProfile) userResponse {
	return userResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      string(p.Role),
	}
}
