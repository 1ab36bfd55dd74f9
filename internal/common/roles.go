// File: internal/common/roles.go
package common

// User roles mirrored from the identity provider's profile claims.
// A user may act in either capacity; the role is a preference, not a gate.
const (
	RoleSeeker = "SEEKER"
	RoleOwner  = "OWNER"
)

// ValidRole reports whether the given string is a known role.
func ValidRole(role string) bool {
	return role == RoleSeeker || role == RoleOwner
}
