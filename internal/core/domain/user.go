package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles. Roles are seeded once at startup;
// no request path creates new ones.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole maps a raw string to a Role. Matching is case-exact.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Elevated reports whether the role grants access beyond the caller's own resources.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrRoleNotFound = errors.New("role not found")

// User models an account. Identity is defined by Email, not by ID.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleRecord is the persisted form of a Role.
type RoleRecord struct {
	ID   string `json:"id"`
	Name Role   `json:"name"`
}
