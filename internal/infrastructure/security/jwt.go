package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/brandshub/user-directory/internal/core/domain"
	"github.com/brandshub/user-directory/internal/core/ports"
)

const tokenType = "Bearer"

// sessionClaims is the JWT payload for a directory session.
type sessionClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and validates HS256-signed session tokens. Tokens are
// stateless: there is no server-side session store and no revocation
// before natural expiry.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

// NewJWTIssuer returns an issuer with the given signing secret and token
// lifetime. A non-positive ttl falls back to 24 hours.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token carrying the user's id, username, and roles.
func (i *JWTIssuer) Issue(user *domain.User) (*ports.IssuedToken, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Username: user.Username,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &ports.IssuedToken{
		Token:     signed,
		Type:      tokenType,
		ExpiresIn: int64(i.ttl.Seconds()),
	}, nil
}

// Validate verifies the signature method, signature, and expiry, then
// extracts the subject identity.
func (i *JWTIssuer) Validate(token string) (*ports.TokenClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
	}, nil
}
