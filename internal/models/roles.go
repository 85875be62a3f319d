package models

import "fmt"

// Role is the closed set of permission names a user can hold. There is no
// hierarchy: a permission check passes only on an exact match.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReadOnly Role = "readonly"
)

// DefaultRole is assigned when a user is created without an explicit role.
const DefaultRole = RoleReadOnly

// ParseRole converts a wire string into a Role, rejecting anything outside
// the enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleReadOnly:
		return RoleReadOnly, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}
