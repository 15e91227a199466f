// Package token issues and verifies the signed identity tokens that make the
// service stateless: a token carries everything needed to rebuild a Principal,
// and the server keeps no session state.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/apiwiz/task-system/internal/core/domain"
)

// Verification failures are distinct internally so the gate can log the real
// reason; they all collapse to the same 401 externally.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
)

const defaultTTL = 24 * time.Hour

// Service signs and verifies HS256 JWTs with a fixed expiry window.
type Service struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

// NewService creates a Service using the wall clock. A non-positive ttl
// falls back to 24 hours.
func NewService(secret string, ttl time.Duration) *Service {
	return NewServiceWithClock(secret, ttl, time.Now)
}

// NewServiceWithClock is NewService with an injectable clock, used by tests
// to pin issuance and verification to deterministic instants.
func NewServiceWithClock(secret string, ttl time.Duration, clock func() time.Time) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, clock: clock}
}

// TTL returns the configured expiry window.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue produces a compact signed token for the user. The expiry is embedded
// in the token itself; nothing is stored server-side.
func (s *Service) Issue(user *domain.User) (string, error) {
	now := s.clock()
	claims := jwt.MapClaims{
		"sub":  user.Email,
		"uid":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks the signature and expiry of a raw token and decodes its
// claims into a Principal. Verification is a pure function of the token
// string, the signing secret, and the clock.
func (s *Service) Verify(raw string) (*domain.Principal, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, ErrTokenMalformed
	}

	email, _ := claims["sub"].(string)
	id, _ := claims["uid"].(string)
	roleName, _ := claims["role"].(string)
	role, ok := domain.ParseRole(roleName)
	if email == "" || id == "" || !ok {
		return nil, ErrTokenMalformed
	}

	return &domain.Principal{ID: id, Email: email, Role: role}, nil
}
