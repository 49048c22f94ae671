// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
// Roles are fixed at registration.
type UserRole string

const (
	// Moderation rights over every resource
	RoleAdmin UserRole = "admin"

	// Default role for registered campus members
	RoleStudent UserRole = "student"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// IsAdmin reports whether r carries administrative rights.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}
