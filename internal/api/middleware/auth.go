package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/apiwiz/task-system/internal/api/metrics"
	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/token"
)

// principalKey is the echo context key under which the request's Principal is stored.
const principalKey = "principal"

// TokenVerifier turns a raw bearer token into a Principal.
type TokenVerifier interface {
	Verify(raw string) (*domain.Principal, error)
}

// RevocationChecker reports whether a user's tokens have been marked stale.
type RevocationChecker interface {
	Contains(ctx context.Context, userID string) (bool, error)
}

// Auth verifies the bearer token and injects the Principal into the request
// context. Paths matching one of the public prefixes bypass the gate entirely,
// before any token parsing. Failures are logged with their reason — never with
// the token value — and short-circuit with 401.
func Auth(verifier TokenVerifier, revoked RevocationChecker, publicPrefixes []string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range publicPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return reject(c, log, "missing_header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return reject(c, log, "bad_header")
			}

			principal, err := verifier.Verify(parts[1])
			if err != nil {
				return reject(c, log, verifyReason(err))
			}

			if revoked != nil {
				stale, err := revoked.Contains(c.Request().Context(), principal.ID)
				if err != nil {
					// Degrade open: the denylist is a hardening layer, not
					// the source of truth for authentication.
					log.Warn().Err(err).Msg("revocation check failed, continuing")
				} else if stale {
					return reject(c, log, "revoked")
				}
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the Principal set by Auth, or nil when absent.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

func reject(c echo.Context, log zerolog.Logger, reason string) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	log.Warn().
		Str("reason", reason).
		Str("path", c.Request().URL.Path).
		Msg("authentication failed")
	return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
}

// verifyReason maps token verification errors to metric/log labels. The
// distinction is internal only; the response is the same 401 for all of them.
func verifyReason(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return "expired"
	case errors.Is(err, token.ErrSignatureInvalid):
		return "bad_signature"
	default:
		return "malformed"
	}
}
