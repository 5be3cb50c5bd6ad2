package rbac

import (
	"errors"
	"strings"
)

// Role is the coarse access level of an identity.
type Role string

const (
	// RoleAdmin grants every capability including system administration.
	RoleAdmin Role = "admin"
	// RoleLibrarian is the library staff role with full loan and reservation control.
	RoleLibrarian Role = "librarian"
	// RoleCirculation handles day-to-day loans and reservations.
	// It is never derived from directory groups and can only be assigned manually.
	RoleCirculation Role = "circulation"
	// RoleRegistration is the cataloging, circulation and registration staff role.
	RoleRegistration Role = "registration"
	// RoleEndUser is the lowest privilege role and the fallback when no group matches.
	RoleEndUser Role = "enduser"
)

// ErrUnknownRole is returned when a role name is not one of the known roles.
var ErrUnknownRole = errors.New("unknown role")

// Roles lists every known role from highest to lowest privilege.
func Roles() []Role {
	return []Role{RoleAdmin, RoleLibrarian, RoleCirculation, RoleRegistration, RoleEndUser}
}

// ParseRole converts a role name into a Role. Matching is case-insensitive.
func ParseRole(name string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(name)))

	for _, r := range Roles() {
		if r == candidate {
			return r, nil
		}
	}

	return "", ErrUnknownRole
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
