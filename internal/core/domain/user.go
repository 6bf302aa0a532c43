package domain

import (
	"strings"
	"time"
)

const (
	// RoleAdmin grants access to directory-wide operations.
	RoleAdmin = "ADMIN"
	// RoleUser is the role every account starts with.
	RoleUser = "USER"
)

// UserType distinguishes internal staff accounts from external partners.
type UserType string

const (
	TypeInternal UserType = "INTERNAL"
	TypeExternal UserType = "EXTERNAL"
)

// ParseUserType converts a raw string to a UserType, accepting any case.
func ParseUserType(s string) (UserType, bool) {
	switch UserType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeInternal:
		return TypeInternal, true
	case TypeExternal:
		return TypeExternal, true
	}
	return "", false
}

// UserStatus is the coarse account gate. Any status may move to any other;
// there is no transition table.
type UserStatus string

const (
	StatusActive    UserStatus = "ACTIVE"
	StatusInactive  UserStatus = "INACTIVE"
	StatusSuspended UserStatus = "SUSPENDED"
	StatusPending   UserStatus = "PENDING"
)

// ParseUserStatus converts a raw string to a UserStatus, accepting any case.
func ParseUserStatus(s string) (UserStatus, bool) {
	switch UserStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	case StatusSuspended:
		return StatusSuspended, true
	case StatusPending:
		return StatusPending, true
	}
	return "", false
}

// User models one account in the directory. PasswordHash is the only
// credential representation ever persisted and is excluded from JSON.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	CompanyName  string     `json:"company_name,omitempty"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	UserType     UserType   `json:"user_type"`
	Status       UserStatus `json:"status"`
	Roles        []string   `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// FullName joins first and last name for display and name search.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the role is present in the user's role set.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AddRole adds a role with set semantics: adding an already-present role
// is a no-op.
func (u *User) AddRole(role string) {
	if u.HasRole(role) {
		return
	}
	u.Roles = append(u.Roles, role)
}

// RemoveRole removes a role; removing an absent role is a no-op. The
// remaining set may be empty but is never nil.
func (u *User) RemoveRole(role string) {
	kept := u.Roles[:0]
	for _, r := range u.Roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
	if u.Roles == nil {
		u.Roles = []string{}
	}
}
