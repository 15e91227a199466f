package ports

import (
	"context"

	"github.com/apiwiz/task-system/internal/core/domain"
)

// SignupInput carries the details for a new account. Role is not part of the
// input: every signup starts as a plain USER.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserProfile is the public view of an account — no password, no hash.
type UserProfile struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      domain.Role
}

// LoginResult couples the profile with the issued token.
type LoginResult struct {
	Profile UserProfile
	Token   string
}

// AuthService defines the authentication use-cases.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*UserProfile, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// AssignAdmin promotes the target user to ADMIN. Idempotent when the
	// user already holds the role.
	AssignAdmin(ctx context.Context, userID string) error
}
