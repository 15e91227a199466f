package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/apiwiz/task-system/internal/core/domain"
)

// RequireRoles allows the request only when the Principal holds one of the
// given roles.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	req := domain.Requirement{Roles: roles}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !domain.Allowed(PrincipalFrom(c), req, "") {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// RequireRolesOrSelf allows the request when the Principal holds one of the
// given roles, or when a plain USER targets itself: the path parameter named
// by param must equal the Principal's own id.
func RequireRolesOrSelf(param string, roles ...domain.Role) echo.MiddlewareFunc {
	req := domain.Requirement{Roles: roles, AllowSelf: true}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !domain.Allowed(PrincipalFrom(c), req, c.Param(param)) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
