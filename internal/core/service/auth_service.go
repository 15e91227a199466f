package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
)

// TokenIssuer abstracts token issuance so the service can be tested without
// a real signing key.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// RevocationList marks a user's outstanding tokens as stale after a role
// change. The mark expires with the token window, so a re-login always works.
type RevocationList interface {
	Mark(ctx context.Context, userID string) error
}

// AuthService implements signup, login, and role elevation.
type AuthService struct {
	users   ports.UserRepository
	roles   ports.RoleRepository
	tokens  TokenIssuer
	revoked RevocationList
	audit   ports.AuditSink
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	tokens TokenIssuer,
	revoked RevocationList,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		roles:   roles,
		tokens:  tokens,
		revoked: revoked,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

// Signup registers a new account with the fixed USER role.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.UserProfile, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The repository maps a duplicate-key violation to ErrUserExists, which
	// closes the race between the lookup above and this insert.
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Msg("account created")
	s.audit.Record(ports.AuditEvent{Action: ports.AuditSignup, ActorEmail: created.Email, TargetID: created.ID, At: now})

	return profileOf(created), nil
}

// Login verifies credentials and issues a token. An unknown email and a wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.audit.Record(ports.AuditEvent{Action: ports.AuditLoginFailed, ActorEmail: email, At: s.now().UTC()})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.audit.Record(ports.AuditEvent{Action: ports.AuditLoginFailed, ActorEmail: email, At: s.now().UTC()})
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Msg("login succeeded")
	s.audit.Record(ports.AuditEvent{Action: ports.AuditLogin, ActorEmail: user.Email, TargetID: user.ID, At: s.now().UTC()})

	return &ports.LoginResult{Profile: *profileOf(user), Token: tok}, nil
}

// AssignAdmin promotes the target user to ADMIN. Calling it on a user who is
// already an ADMIN is not an error and changes nothing.
func (s *AuthService) AssignAdmin(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	adminRole, err := s.roles.FindByName(ctx, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			// Roles are seeded at startup; a missing ADMIN role is a
			// deployment fault, not a bad request.
			s.log.Error().Msg("ADMIN role missing from store, seeding invariant violated")
		}
		return err
	}

	if user.Role == adminRole.Name {
		return nil
	}

	user.Role = adminRole.Name
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	// Outstanding tokens still carry the old role claim. Mark them stale so
	// the change takes effect without waiting for natural expiry.
	if s.revoked != nil {
		if err := s.revoked.Mark(ctx, user.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to mark tokens revoked")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("role changed to ADMIN")
	s.audit.Record(ports.AuditEvent{Action: ports.AuditRoleAssigned, ActorEmail: user.Email, TargetID: user.ID, At: s.now().UTC()})

	return nil
}

func profileOf(u *domain.User) *ports.UserProfile {
	return &ports.UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}
