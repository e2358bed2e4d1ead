package authz

import (
	"context"

	"github.com/google/uuid"
)

// Context keys are unexported struct types to prevent collisions.
type (
	principalCtxKey struct{}
	orgCtxKey       struct{}
	roleCtxKey      struct{}
)

// WithPrincipal stores the authenticated principal id in the context.
func WithPrincipal(ctx context.Context, principalID uuid.UUID) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, principalID)
}

// PrincipalFromContext retrieves the authenticated principal id.
func PrincipalFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(principalCtxKey{}).(uuid.UUID)
	return id, ok
}

// WithOrganizationID records the organization the caller selected for this
// request. It is set whenever a selector header is present, regardless of
// whether the principal has a membership there, because guards need the
// distinction between "no selector" and "no membership".
func WithOrganizationID(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, orgCtxKey{}, orgID)
}

// OrganizationIDFromContext retrieves the selected organization id.
func OrganizationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(orgCtxKey{}).(uuid.UUID)
	return id, ok
}

// WithRole stores the principal's role in the selected organization. Only
// set when a membership was actually resolved.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// RoleFromContext retrieves the resolved membership role.
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(Role)
	return role, ok
}
