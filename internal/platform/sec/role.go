// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole is the coarse classification stored on a user profile.
//
// Roles gate whole views (dashboards, library management). They are not
// ranked: an Admin does not implicitly hold the Librarian role.
type UserRole string

const (
	// RoleAdmin opens the admin dashboard.
	RoleAdmin UserRole = "Admin"

	// RoleLibrarian opens the librarian dashboard and manages libraries.
	RoleLibrarian UserRole = "Librarian"

	// RoleMember is assigned to every newly registered profile.
	RoleMember UserRole = "Member"
)

// Roles lists every assignable role in display order.
var Roles = []UserRole{RoleAdmin, RoleLibrarian, RoleMember}

// IsValid reports whether r is one of the enumerated roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (r UserRole) String() string { return string(r) }

// ParseRole converts a stored or submitted value into a role.
// The second result is false when the value is not enumerated.
func ParseRole(value string) (UserRole, bool) {
	role := UserRole(value)
	return role, role.IsValid()
}
