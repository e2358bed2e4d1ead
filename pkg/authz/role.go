package authz

import "fmt"

// Role is a membership role in an organization. Roles form a total order
// (owner > admin > member > viewer) and every comparison in the codebase
// goes through the ordinal; no call site may match on role names.
type Role uint8

const (
	// RoleNone means the principal has no membership in the selected
	// organization. It never grants access to tenant-scoped operations.
	RoleNone Role = iota
	RoleViewer
	RoleMember
	RoleAdmin
	RoleOwner
)

var roleNames = map[Role]string{
	RoleNone:   "none",
	RoleViewer: "viewer",
	RoleMember: "member",
	RoleAdmin:  "admin",
	RoleOwner:  "owner",
}

// String returns the canonical role name.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// Valid reports whether r is a known membership role (RoleNone excluded).
func (r Role) Valid() bool {
	return r >= RoleViewer && r <= RoleOwner
}

// ParseRole converts a stored role name to its ordinal representation.
// Unknown names return ErrUnknownRole so storage corruption fails closed.
func ParseRole(name string) (Role, error) {
	switch name {
	case "viewer":
		return RoleViewer, nil
	case "member":
		return RoleMember, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	default:
		return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
}

// ValidateRoleChange rejects mutations that would violate the single-owner
// invariant: the owner membership can neither be demoted nor removed, and no
// second membership may be promoted to owner through this path (ownership
// transfer is a dedicated administrative operation outside this core).
func ValidateRoleChange(current, next Role) error {
	if current == RoleOwner {
		return ErrOwnerImmutable
	}
	if next == RoleOwner {
		return ErrOwnerImmutable
	}
	if !next.Valid() {
		return ErrUnknownRole
	}
	return nil
}
