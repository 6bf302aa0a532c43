package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/brandshub/user-directory/internal/core/domain"
	"github.com/brandshub/user-directory/internal/core/ports"
)

var validate = validator.New()

// LoginPolicy controls authentication behavior that is configurable rather
// than fixed. RequireActive gates login on account status; the default
// (false) lets non-ACTIVE accounts log in.
type LoginPolicy struct {
	RequireActive bool
}

// UserService implements the identity core: registration, authentication,
// lookups, profile mutation, and role/status management. It holds no state
// between calls; the repository's unique indexes are the only concurrency
// guard it relies on.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	events ports.ActivityPublisher
	policy LoginPolicy
	log    zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

// NewUserService wires the identity service. events may be nil; activity
// publishing is then skipped.
func NewUserService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	events ports.ActivityPublisher,
	policy LoginPolicy,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		events: events,
		policy: policy,
		log:    log,
	}
}

// Register creates a new account with status ACTIVE and the initial USER
// role. Username and email are pre-checked for uniqueness, but the store's
// unique indexes remain the authoritative guard: a duplicate-key failure on
// insert surfaces as the same error as a failed pre-check.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*ports.UserProfile, error) {
	normalizeRegister(&in)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if taken, err := s.repo.ExistsByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}
	if taken, err := s.repo.ExistsByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CompanyName:  in.CompanyName,
		PhoneNumber:  in.PhoneNumber,
		UserType:     in.UserType,
		Status:       domain.StatusActive,
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	s.publish(created, ports.ActivityRegistered, "")

	return toProfile(created), nil
}

// Authenticate resolves the identifier as a username first, then as an
// email. Every failure path returns the same generic error so callers
// cannot distinguish an unknown identifier from a wrong password.
func (s *UserService) Authenticate(ctx context.Context, usernameOrEmail, password string) (*ports.LoginResult, error) {
	identifier := strings.TrimSpace(usernameOrEmail)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.repo.FindByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if s.policy.RequireActive && user.Status != domain.StatusActive {
		return nil, domain.ErrAccountDisabled
	}

	issued, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	user.UpdatedAt = now

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user authenticated")
	s.publish(user, ports.ActivityLogin, "")

	return &ports.LoginResult{
		Token:     issued.Token,
		TokenType: issued.Type,
		ExpiresIn: issued.ExpiresIn,
		User:      toProfile(user),
	}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*ports.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*ports.UserProfile, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*ports.UserProfile, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// UpdateProfile overwrites the mutable profile fields and, when a new
// password is supplied, re-hashes and replaces the credential. An email
// change re-runs the uniqueness contract from registration.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*ports.UserProfile, error) {
	normalizeUpdate(&in)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != user.Email {
		if taken, err := s.repo.ExistsByEmail(ctx, in.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrEmailTaken
		}
	}

	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.CompanyName = in.CompanyName
	user.PhoneNumber = in.PhoneNumber
	user.UserType = in.UserType
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return toProfile(updated), nil
}

// Delete hard-removes the record after an existence check, so a missing id
// fails with ErrUserNotFound without touching the store.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Str("username", user.Username).Msg("user deleted")
	s.publish(user, ports.ActivityDeleted, "")
	return nil
}

func (s *UserService) ListAll(ctx context.Context) ([]ports.UserProfile, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

func (s *UserService) ListByType(ctx context.Context, userType domain.UserType) ([]ports.UserProfile, error) {
	users, err := s.repo.FindByType(ctx, userType)
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

func (s *UserService) ListByStatus(ctx context.Context, status domain.UserStatus) ([]ports.UserProfile, error) {
	users, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

func (s *UserService) SearchByName(ctx context.Context, name string) ([]ports.UserProfile, error) {
	users, err := s.repo.SearchByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

func (s *UserService) SearchByCompany(ctx context.Context, company string) ([]ports.UserProfile, error) {
	users, err := s.repo.SearchByCompany(ctx, strings.TrimSpace(company))
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

// UpdateStatus moves the account to the given status. No transition table
// is enforced; any status may follow any other.
func (s *UserService) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*ports.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Status = status
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(updated, ports.ActivityStatusChanged, string(status))
	return toProfile(updated), nil
}

// AddRole adds a role to the user's set. Adding an already-present role is
// a successful no-op that returns the current state.
func (s *UserService) AddRole(ctx context.Context, id, role string) (*ports.UserProfile, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, domain.ValidationError("role", "is required")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.AddRole(role)
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(updated, ports.ActivityRoleChanged, "+"+role)
	return toProfile(updated), nil
}

// RemoveRole removes a role from the user's set. Removing an absent role
// is a successful no-op.
func (s *UserService) RemoveRole(ctx context.Context, id, role string) (*ports.UserProfile, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, domain.ValidationError("role", "is required")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.RemoveRole(role)
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(updated, ports.ActivityRoleChanged, "-"+role)
	return toProfile(updated), nil
}

// UpdateLastLogin stamps last_login for login bookkeeping decoupled from
// Authenticate (token refresh flows and other system callers).
func (s *UserService) UpdateLastLogin(ctx context.Context, id string) error {
	return s.repo.TouchLastLogin(ctx, id, time.Now().UTC())
}

func (s *UserService) publish(user *domain.User, kind ports.ActivityKind, detail string) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.ActivityEvent{
		UserID:   user.ID,
		Username: user.Username,
		Kind:     kind,
		Detail:   detail,
		At:       time.Now().UTC(),
	})
}

func normalizeRegister(in *ports.RegisterInput) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.UserType == "" {
		in.UserType = domain.TypeExternal
	}
}

func normalizeUpdate(in *ports.UpdateProfileInput) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.UserType == "" {
		in.UserType = domain.TypeExternal
	}
}

func toProfile(u *domain.User) *ports.UserProfile {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return &ports.UserProfile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		CompanyName: u.CompanyName,
		PhoneNumber: u.PhoneNumber,
		UserType:    u.UserType,
		Status:      u.Status,
		Roles:       roles,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLogin:   u.LastLogin,
	}
}

func toProfiles(users []domain.User) []ports.UserProfile {
	out := make([]ports.UserProfile, 0, len(users))
	for i := range users {
		out = append(out, *toProfile(&users[i]))
	}
	return out
}
