// Copyright (c) 2026 YaMDb. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Role is the single source of truth for privilege: the staff/superuser
// style predicates below are derived from it on every call and are never
// persisted independently.
type UserRole string

const (
	// Unrestricted system access, governs catalog and user management
	RoleAdmin UserRole = "admin"

	// Can moderate reviews and comments authored by anyone
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// # Derived Privilege Predicates

// IsModerator reports whether the role grants content moderation rights.
// Admin implies moderator.
func (r UserRole) IsModerator() bool {
	return r == RoleModerator || r == RoleAdmin
}

// IsAdmin reports whether the role grants full administrative rights.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
