package tenant

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/christiananese/hustle-starter/core"
	"github.com/christiananese/hustle-starter/pkg/authz"
)

type config struct {
	resolver Resolver
	logger   *slog.Logger
}

// Option configures the Resolve middleware.
type Option func(*config)

// WithResolver overrides the selector resolver (default: header resolver
// reading DefaultOrgHeader).
func WithResolver(r Resolver) Option {
	return func(c *config) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithLogger sets the middleware logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Resolve builds the tenant half of the access context. When the selector
// header is present it records the selected organization id and, if the
// caller is an authenticated principal with a membership there, the
// membership role. A present selector with no membership is deliberately
// NOT an error here; the guard layer turns it into Forbidden, preserving
// the distinction from the missing-selector BadRequest case.
//
// The middleware is read-only; it performs no writes and annotates the
// context only.
func Resolve(memberships MembershipSource, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		resolver: NewHeaderResolver(""),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, err := cfg.resolver.Resolve(r)
			if err != nil {
				core.RespondError(w, core.ErrBadRequest)
				return
			}

			// No selector: continue without tenant context. Guards on
			// tenant-scoped operations reject with BadRequest.
			if orgID == uuid.Nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := authz.WithOrganizationID(r.Context(), orgID)

			principalID, ok := authz.PrincipalFromContext(ctx)
			if !ok {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			membership, err := memberships.GetMembership(ctx, orgID, principalID)
			switch {
			case errors.Is(err, ErrMembershipNotFound):
				// Forbidden condition, decided by the guard.
			case err != nil:
				cfg.logger.ErrorContext(ctx, "membership lookup failed",
					slog.String("organization_id", orgID.String()),
					slog.String("principal_id", principalID.String()),
					slog.Any("error", err))
				core.RespondError(w, core.ErrInternalServerError)
				return
			default:
				ctx = authz.WithRole(ctx, membership.Role)
				ctx = WithMembership(ctx, membership)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
