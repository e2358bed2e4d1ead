package scopes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/christiananese/hustle-starter/pkg/scopes"
)

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		required string
		granted  string
		want     bool
	}{
		{"projects.read", "projects.read", true},
		{"projects.read", "*", true},
		{"projects.read", "projects.*", true},
		{"projects", "projects.*", true},
		{"projects.read.all", "projects.*", true},
		{"projectsextra", "projects.*", false},
		{"projects.read", "projects.write", false},
		{"projects.read", "billing.*", false},
		{"projects.read", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, scopes.Matches(tt.required, tt.granted),
			"required=%q granted=%q", tt.required, tt.granted)
	}
}

func TestHasAll(t *testing.T) {
	t.Parallel()

	granted := []string{"projects.*", "billing.read"}

	assert.True(t, scopes.HasAll(granted, nil))
	assert.True(t, scopes.HasAll(granted, []string{"projects.write"}))
	assert.True(t, scopes.HasAll(granted, []string{"projects.write", "billing.read"}))
	assert.False(t, scopes.HasAll(granted, []string{"billing.write"}))
	assert.False(t, scopes.HasAll(nil, []string{"projects.read"}))

	assert.True(t, scopes.HasAll([]string{"*"}, []string{"anything", "at.all"}))
}

func TestHasAny(t *testing.T) {
	t.Parallel()

	granted := []string{"projects.read"}

	assert.True(t, scopes.HasAny(granted, nil))
	assert.True(t, scopes.HasAny(granted, []string{"billing.read", "projects.read"}))
	assert.False(t, scopes.HasAny(granted, []string{"billing.read"}))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	allowed := []string{"projects.*", "billing.read"}

	assert.NoError(t, scopes.Validate([]string{"projects.write", "billing.read"}, allowed))

	err := scopes.Validate([]string{"admin"}, allowed)
	assert.ErrorIs(t, err, scopes.ErrScopeNotAllowed)
	assert.Contains(t, err.Error(), `"admin"`)
}

func TestParseJoinNormalize(t *testing.T) {
	t.Parallel()

	assert.Nil(t, scopes.Parse("   "))
	assert.Equal(t, []string{"a", "b"}, scopes.Parse(" a  b "))
	assert.Equal(t, "a b", scopes.Join([]string{"a", "b"}))

	assert.Nil(t, scopes.Normalize(nil))
	assert.Equal(t, []string{"a", "b"}, scopes.Normalize([]string{"b", "a", "b", ""}))
}
