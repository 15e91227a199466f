package ports

import (
	"context"

	"github.com/apiwiz/task-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Implementations must enforce email uniqueness; Create returns
// domain.ErrUserExists when the email is already taken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// RoleRepository reads and seeds the closed set of roles.
type RoleRepository interface {
	FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, roles []domain.RoleRecord) error
}
