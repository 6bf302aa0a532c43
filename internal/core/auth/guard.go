// Package auth holds the stateless authorization predicates consulted
// before privileged directory operations.
package auth

import "github.com/brandshub/user-directory/internal/core/domain"

// IsAdmin reports whether the caller's role set contains the
// administrative role.
func IsAdmin(roles []string) bool {
	for _, r := range roles {
		if r == domain.RoleAdmin {
			return true
		}
	}
	return false
}

// CanAccessUser implements the self-or-admin rule: the caller may act on
// the target when it is their own record or they hold the admin role.
func CanAccessUser(callerID string, callerRoles []string, targetID string) bool {
	if callerID != "" && callerID == targetID {
		return true
	}
	return IsAdmin(callerRoles)
}
