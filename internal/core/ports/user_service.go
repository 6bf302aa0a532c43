package ports

import (
	"context"
	"time"

	"github.com/brandshub/user-directory/internal/core/domain"
)

// RegisterInput carries all data needed to create a new account.
// Validation tags mirror the directory's field constraints.
type RegisterInput struct {
	Username    string `validate:"required,min=3,max=50"`
	Email       string `validate:"required,email,max=100"`
	Password    string `validate:"required,min=8"`
	FirstName   string `validate:"required,max=50"`
	LastName    string `validate:"required,max=50"`
	CompanyName string `validate:"max=100"`
	PhoneNumber string `validate:"max=20"`
	// UserType defaults to EXTERNAL when empty.
	UserType domain.UserType `validate:"omitempty,oneof=INTERNAL EXTERNAL"`
}

// UpdateProfileInput overwrites the mutable profile fields. Password is
// re-hashed and replaced only when non-empty.
type UpdateProfileInput struct {
	Email       string          `validate:"required,email,max=100"`
	Password    string          `validate:"omitempty,min=8"`
	FirstName   string          `validate:"required,max=50"`
	LastName    string          `validate:"required,max=50"`
	CompanyName string          `validate:"max=100"`
	PhoneNumber string          `validate:"max=20"`
	UserType    domain.UserType `validate:"omitempty,oneof=INTERNAL EXTERNAL"`
}

// UserProfile is the sanitized projection of a user: every field of the
// record except the password hash, which has no representation here at all.
type UserProfile struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	FullName    string            `json:"full_name"`
	CompanyName string            `json:"company_name,omitempty"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	UserType    domain.UserType   `json:"user_type"`
	Status      domain.UserStatus `json:"status"`
	Roles       []string          `json:"roles"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	LastLogin   *time.Time        `json:"last_login,omitempty"`
}

// LoginResult bundles the issued token with its declared type and expiry
// plus the sanitized user projection.
type LoginResult struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      *UserProfile `json:"user"`
}

// UserService defines the identity core's use-case operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*UserProfile, error)
	// Authenticate resolves the identifier as username first, then email,
	// verifies the password, stamps last_login, and issues a token.
	Authenticate(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error)

	GetByID(ctx context.Context, id string) (*UserProfile, error)
	GetByUsername(ctx context.Context, username string) (*UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*UserProfile, error)

	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*UserProfile, error)
	Delete(ctx context.Context, id string) error

	ListAll(ctx context.Context) ([]UserProfile, error)
	ListByType(ctx context.Context, userType domain.UserType) ([]UserProfile, error)
	ListByStatus(ctx context.Context, status domain.UserStatus) ([]UserProfile, error)
	SearchByName(ctx context.Context, name string) ([]UserProfile, error)
	SearchByCompany(ctx context.Context, company string) ([]UserProfile, error)

	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (*UserProfile, error)
	AddRole(ctx context.Context, id, role string) (*UserProfile, error)
	RemoveRole(ctx context.Context, id, role string) (*UserProfile, error)

	// UpdateLastLogin is the standalone bookkeeping touch for system
	// callers whose login flow is decoupled from Authenticate.
	UpdateLastLogin(ctx context.Context, id string) error
}
