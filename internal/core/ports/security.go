package ports

import "github.com/brandshub/user-directory/internal/core/domain"

// PasswordHasher is the one-way credential hasher. Hash output is salted,
// so two calls on the same input differ; Verify is the only way back.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// IssuedToken is a signed session token plus the metadata declared to callers.
type IssuedToken struct {
	Token string
	// Type is the scheme the client should present the token with ("Bearer").
	Type string
	// ExpiresIn is the validity window in seconds from issuance.
	ExpiresIn int64
}

// TokenClaims is the identity extracted from a validated token.
type TokenClaims struct {
	UserID   string
	Username string
	Roles    []string
}

// TokenIssuer creates and validates stateless, time-bounded session tokens.
// Validate fails with domain.ErrTokenExpired or domain.ErrInvalidToken.
type TokenIssuer interface {
	Issue(user *domain.User) (*IssuedToken, error)
	Validate(token string) (*TokenClaims, error)
}
