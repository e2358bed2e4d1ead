package apikey

import (
	"context"

	"github.com/google/uuid"
)

// Access is the request-scoped identity established by a verified API key.
// It carries only what downstream handlers need; the key's hash and
// fingerprint never enter the context.
type Access struct {
	KeyID  uuid.UUID
	OrgID  uuid.UUID
	Name   string
	Scopes []string
}

type accessCtxKey struct{}

// WithAccess returns a context carrying the verified key access.
func WithAccess(ctx context.Context, access Access) context.Context {
	return context.WithValue(ctx, accessCtxKey{}, access)
}

// AccessFromContext extracts the verified key access from the context.
func AccessFromContext(ctx context.Context) (Access, bool) {
	access, ok := ctx.Value(accessCtxKey{}).(Access)
	return access, ok
}
