package apikey

import (
	"net/http"
	"strings"

	"github.com/christiananese/hustle-starter/core"
	"github.com/christiananese/hustle-starter/pkg/authz"
	"github.com/christiananese/hustle-starter/pkg/scopes"
)

// Middleware authenticates requests carrying an API key as a bearer token.
// A verified key binds the request to its owning organization: downstream
// handlers see the org id in the same context slot session-based tenant
// resolution uses, so both identity paths converge on one contract.
//
// All failures produce an identical 401. Missing header, malformed secret,
// unknown key, revoked key and expired key are indistinguishable on the
// wire.
func Middleware(auth *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := bearerToken(r)
			if secret == "" {
				core.RespondError(w, core.ErrUnauthorized)
				return
			}

			key, err := auth.Authenticate(r.Context(), secret)
			if err != nil {
				core.RespondError(w, core.ErrUnauthorized)
				return
			}

			ctx := WithAccess(r.Context(), Access{
				KeyID:  key.ID,
				OrgID:  key.OrgID,
				Name:   key.Name,
				Scopes: key.Scopes,
			})
			ctx = authz.WithOrganizationID(ctx, key.OrgID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScopes rejects requests whose key lacks any of the given scopes.
// Wildcards in the key's grant are honored ("*" or "projects.*").
func RequireScopes(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, ok := AccessFromContext(r.Context())
			if !ok {
				core.RespondError(w, core.ErrUnauthorized)
				return
			}

			if !scopes.HasAll(access.Scopes, required) {
				core.RespondErrorMessage(w, core.ErrForbidden, "insufficient scope")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitKey extracts the credential identity for rate limiting. Returns
// the key id, never the organization id, so each key has its own budget.
func RateLimitKey(r *http.Request) string {
	access, ok := AccessFromContext(r.Context())
	if !ok {
		return ""
	}
	return access.KeyID.String()
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
