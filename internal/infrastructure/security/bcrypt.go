// Package security provides the credential hasher and token issuer
// implementations injected into the identity service.
package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/brandshub/user-directory/internal/core/ports"
)

// BcryptHasher hashes passwords with bcrypt. The cost is a policy knob:
// high enough to make offline guessing impractical, low enough that a
// single verification stays sub-second.
type BcryptHasher struct {
	cost int
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher returns a hasher with the given cost. Costs outside
// bcrypt's valid range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a salted digest; two calls on the same input differ.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. bcrypt's comparison
// is constant-time with respect to the derived key.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
