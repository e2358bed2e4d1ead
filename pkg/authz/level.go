package authz

// Level is the minimal access level an operation declares. Each level
// subsumes the previous one; the guard evaluates them in order and
// short-circuits on the first unmet requirement.
type Level uint8

const (
	// LevelPublic requires nothing.
	LevelPublic Level = iota
	// LevelAuthenticated requires a resolved principal.
	LevelAuthenticated
	// LevelTenantScoped requires an organization selector and a resolved
	// membership in that organization.
	LevelTenantScoped
	// LevelAdminOrAbove requires a membership role of admin or owner.
	LevelAdminOrAbove
	// LevelOwnerOnly requires the owner role.
	LevelOwnerOnly
)

var levelNames = map[Level]string{
	LevelPublic:        "public",
	LevelAuthenticated: "authenticated",
	LevelTenantScoped:  "tenant_scoped",
	LevelAdminOrAbove:  "admin_or_above",
	LevelOwnerOnly:     "owner_only",
}

// String returns the level name for logging.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// MinRole returns the weakest role that satisfies l. Levels below
// TenantScoped have no role requirement and return RoleNone.
func (l Level) MinRole() Role {
	switch l {
	case LevelTenantScoped:
		return RoleViewer
	case LevelAdminOrAbove:
		return RoleAdmin
	case LevelOwnerOnly:
		return RoleOwner
	default:
		return RoleNone
	}
}
