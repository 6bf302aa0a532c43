package ports

import (
	"context"
	"time"

	"github.com/brandshub/user-directory/internal/core/domain"
)

// UserRepository is the durable, uniquely-indexed user store. Create and
// Update must surface unique-constraint violations as
// domain.ErrUsernameTaken / domain.ErrEmailTaken — the store's indexes are
// the authoritative guard against check-then-act registration races.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	FindAll(ctx context.Context) ([]domain.User, error)
	FindByType(ctx context.Context, userType domain.UserType) ([]domain.User, error)
	FindByStatus(ctx context.Context, status domain.UserStatus) ([]domain.User, error)
	// SearchByName and SearchByCompany are case-insensitive substring matches.
	SearchByName(ctx context.Context, name string) ([]domain.User, error)
	SearchByCompany(ctx context.Context, company string) ([]domain.User, error)

	// TouchLastLogin sets last_login (and updated_at) without rewriting the
	// rest of the document, so login bookkeeping cannot clobber a
	// concurrent profile update.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
