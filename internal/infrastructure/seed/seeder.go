// Package seed populates the store with the data the service assumes exists:
// the closed role set and the bootstrap SUPER_ADMIN account. Both steps are
// idempotent and run once at startup, before the server accepts traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
)

// Seeder seeds roles and the super-admin account.
type Seeder struct {
	users ports.UserRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewSeeder(users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, log: log}
}

// Run seeds the three roles when the roles collection is empty, then creates
// the SUPER_ADMIN account when no user with the given email exists.
func (s *Seeder) Run(ctx context.Context, superAdminEmail, superAdminPassword string) error {
	if err := s.seedRoles(ctx); err != nil {
		return err
	}
	return s.seedSuperAdmin(ctx, superAdminEmail, superAdminPassword)
}

func (s *Seeder) seedRoles(ctx context.Context) error {
	n, err := s.roles.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if n > 0 {
		return nil
	}

	records := []domain.RoleRecord{
		{Name: domain.RoleUser},
		{Name: domain.RoleAdmin},
		{Name: domain.RoleSuperAdmin},
	}
	if err := s.roles.Insert(ctx, records); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	s.log.Info().Msg("seeded roles USER, ADMIN, SUPER_ADMIN")
	return nil
}

func (s *Seeder) seedSuperAdmin(ctx context.Context, email, password string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed super admin: %w", err)
	}

	role, err := s.roles.FindByName(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}

	now := time.Now().UTC()
	if _, err := s.users.Create(ctx, &domain.User{
		FirstName:    "Super",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		// A concurrent replica may have won the race; that's fine.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("seed super admin: %w", err)
	}

	s.log.Info().Str("email", email).Msg("seeded SUPER_ADMIN account")
	return nil
}
