package authz

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// DefaultSessionCookie is the cookie carrying the opaque session credential.
const DefaultSessionCookie = "session"

// SessionVerifier resolves an opaque session credential to a principal id.
// Implementations delegate to the external auth provider; this core only
// trusts the result. Verifiers return ErrInvalidSession (possibly wrapped)
// for credentials that do not resolve.
type SessionVerifier interface {
	Verify(ctx context.Context, credential string) (uuid.UUID, error)
}

// SessionVerifierFunc adapts a function to the SessionVerifier interface.
type SessionVerifierFunc func(ctx context.Context, credential string) (uuid.UUID, error)

// Verify calls the function.
func (f SessionVerifierFunc) Verify(ctx context.Context, credential string) (uuid.UUID, error) {
	return f(ctx, credential)
}

type identityConfig struct {
	cookieName string
}

// IdentityOption configures the Authenticate middleware.
type IdentityOption func(*identityConfig)

// WithSessionCookie overrides the session cookie name.
func WithSessionCookie(name string) IdentityOption {
	return func(c *identityConfig) {
		if name != "" {
			c.cookieName = name
		}
	}
}

// Authenticate resolves the caller's identity from the session cookie or a
// bearer token and stores the principal id in the request context. An
// absent, invalid or expired credential yields an anonymous context; no
// error is produced at this layer; the first guard requiring authentication
// rejects instead.
func Authenticate(verifier SessionVerifier, opts ...IdentityOption) func(http.Handler) http.Handler {
	cfg := &identityConfig{cookieName: DefaultSessionCookie}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := extractCredential(r, cfg.cookieName)
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}

			principalID, err := verifier.Verify(r.Context(), credential)
			if err != nil {
				// Anonymous, not an error: guards decide whether
				// authentication is required for this operation.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principalID)))
		})
	}
}

// extractCredential pulls the session credential from the cookie first,
// falling back to a bearer token for SPA clients.
func extractCredential(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}
