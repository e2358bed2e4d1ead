package tenant

import (
	"context"
	"log/slog"
)

type membershipCtxKey struct{}

// WithMembership stores the resolved membership in the context.
func WithMembership(ctx context.Context, m *Membership) context.Context {
	return context.WithValue(ctx, membershipCtxKey{}, m)
}

// MembershipFromContext retrieves the resolved membership.
func MembershipFromContext(ctx context.Context) (*Membership, bool) {
	m, ok := ctx.Value(membershipCtxKey{}).(*Membership)
	return m, ok
}

// LoggerExtractor returns a slog attribute extractor that annotates log
// records with the resolved organization id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if m, ok := MembershipFromContext(ctx); ok {
			return slog.String("organization_id", m.OrgID.String()), true
		}
		return slog.Attr{}, false
	}
}
