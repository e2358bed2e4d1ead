package authz

import (
	"log/slog"
	"net/http"

	"github.com/christiananese/hustle-starter/core"
)

type guardConfig struct {
	logger *slog.Logger
}

// GuardOption configures the Require middleware.
type GuardOption func(*guardConfig)

// WithLogger sets the logger used for denied requests.
func WithLogger(logger *slog.Logger) GuardOption {
	return func(c *guardConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Require returns middleware enforcing the given access level. Levels are
// evaluated in order and the first unmet requirement terminates the
// request:
//
//   - no principal on Authenticated+        -> 401 Unauthorized
//   - no selector header on TenantScoped+   -> 400 BadRequest (malformed, not denied)
//   - selector but no membership            -> 403 Forbidden (never 404: existence is sensitive)
//   - role below the level's minimum        -> 403 Forbidden
//
// A request that reaches the wrapped handler is guaranteed to carry a
// principal, a selected organization and a role at least equal to the
// level's minimum.
func Require(level Level, opts ...GuardOption) func(http.Handler) http.Handler {
	cfg := &guardConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if level == LevelPublic {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			principalID, ok := PrincipalFromContext(ctx)
			if !ok {
				cfg.logger.InfoContext(ctx, "request denied: no principal",
					slog.String("level", level.String()),
					slog.String("path", r.URL.Path))
				core.RespondError(w, core.ErrUnauthorized)
				return
			}

			if level == LevelAuthenticated {
				next.ServeHTTP(w, r)
				return
			}

			orgID, ok := OrganizationIDFromContext(ctx)
			if !ok {
				cfg.logger.InfoContext(ctx, "request denied: missing organization selector",
					slog.String("level", level.String()),
					slog.String("principal_id", principalID.String()),
					slog.String("path", r.URL.Path))
				core.RespondError(w, core.ErrBadRequest)
				return
			}

			role, ok := RoleFromContext(ctx)
			if !ok || !role.Valid() || !role.AtLeast(level.MinRole()) {
				cfg.logger.InfoContext(ctx, "request denied: insufficient role",
					slog.String("level", level.String()),
					slog.String("principal_id", principalID.String()),
					slog.String("organization_id", orgID.String()),
					slog.String("role", role.String()),
					slog.String("path", r.URL.Path))
				core.RespondError(w, core.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
