package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the identity core. The boundary layer maps each to a
// transport status; anything outside this set is an internal failure and
// must never be masked as one of these.
var (
	// ErrValidation covers malformed or missing input caught before the store.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate is the base for unique-constraint collisions.
	ErrDuplicate = errors.New("resource already exists")

	// ErrUsernameTaken and ErrEmailTaken identify which field collided.
	// Both match ErrDuplicate via errors.Is.
	ErrUsernameTaken = fmt.Errorf("username %w", ErrDuplicate)
	ErrEmailTaken    = fmt.Errorf("email %w", ErrDuplicate)

	// ErrUserNotFound signals that an id/username/email resolves to no live record.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for every authentication failure,
	// whether the identifier or the password was wrong. The single message
	// avoids account-enumeration leakage.
	ErrInvalidCredentials = errors.New("invalid username/email or password")

	// ErrAccountDisabled is returned when the login status gate is enabled
	// and the account is not ACTIVE.
	ErrAccountDisabled = errors.New("account is not active")

	// ErrForbidden signals the caller lacks the required role or identity.
	ErrForbidden = errors.New("access forbidden")

	// ErrInvalidToken and ErrTokenExpired cover token validation failures.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError wraps ErrValidation with the offending field and reason.
func ValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
