package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christiananese/hustle-starter/pkg/authz"
)

func TestRoleOrdering(t *testing.T) {
	// The total order owner > admin > member > viewer drives every
	// authorization decision, so pin it down explicitly.
	assert.True(t, authz.RoleOwner.AtLeast(authz.RoleAdmin))
	assert.True(t, authz.RoleAdmin.AtLeast(authz.RoleMember))
	assert.True(t, authz.RoleMember.AtLeast(authz.RoleViewer))
	assert.True(t, authz.RoleViewer.AtLeast(authz.RoleViewer))

	assert.False(t, authz.RoleViewer.AtLeast(authz.RoleMember))
	assert.False(t, authz.RoleMember.AtLeast(authz.RoleAdmin))
	assert.False(t, authz.RoleAdmin.AtLeast(authz.RoleOwner))
	assert.False(t, authz.RoleNone.AtLeast(authz.RoleViewer))
}

func TestRoleLevelGrid(t *testing.T) {
	roles := []authz.Role{authz.RoleViewer, authz.RoleMember, authz.RoleAdmin, authz.RoleOwner}
	levels := []authz.Level{authz.LevelTenantScoped, authz.LevelAdminOrAbove, authz.LevelOwnerOnly}

	for _, role := range roles {
		for _, level := range levels {
			granted := role.AtLeast(level.MinRole())
			want := role >= level.MinRole()
			assert.Equal(t, want, granted, "role=%s level=%s", role, level)
		}
	}

	// Spot checks from the property list.
	assert.False(t, authz.RoleViewer.AtLeast(authz.LevelAdminOrAbove.MinRole()))
	assert.True(t, authz.RoleViewer.AtLeast(authz.LevelTenantScoped.MinRole()))
	assert.False(t, authz.RoleAdmin.AtLeast(authz.LevelOwnerOnly.MinRole()))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    authz.Role
		wantErr bool
	}{
		{name: "owner", input: "owner", want: authz.RoleOwner},
		{name: "admin", input: "admin", want: authz.RoleAdmin},
		{name: "member", input: "member", want: authz.RoleMember},
		{name: "viewer", input: "viewer", want: authz.RoleViewer},
		{name: "unknown", input: "superuser", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "case sensitive", input: "Admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := authz.ParseRole(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, authz.ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestValidateRoleChange(t *testing.T) {
	// Owner memberships are immutable through this path.
	assert.ErrorIs(t, authz.ValidateRoleChange(authz.RoleOwner, authz.RoleAdmin), authz.ErrOwnerImmutable)
	assert.ErrorIs(t, authz.ValidateRoleChange(authz.RoleAdmin, authz.RoleOwner), authz.ErrOwnerImmutable)

	// Regular promotions and demotions pass.
	assert.NoError(t, authz.ValidateRoleChange(authz.RoleMember, authz.RoleAdmin))
	assert.NoError(t, authz.ValidateRoleChange(authz.RoleAdmin, authz.RoleViewer))

	assert.ErrorIs(t, authz.ValidateRoleChange(authz.RoleMember, authz.RoleNone), authz.ErrUnknownRole)
}
