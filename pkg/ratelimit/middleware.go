package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/christiananese/hustle-starter/core"
)

// KeyFunc extracts the rate limit key from the request. Limiting is keyed
// by credential identity (API key id), never by organization, so each key
// carries an independent budget.
type KeyFunc func(r *http.Request) string

// Middleware enforces the limiter for every request passing through. The
// rejection body states the configured limit and window so legitimate
// clients can back off correctly; successful responses expose the
// remaining budget via X-RateLimit headers.
func Middleware(fw *FixedWindow, keyFunc KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				// Applied before authentication or with a broken key
				// extractor: a wiring bug, not a client error.
				core.RespondError(w, core.ErrInternalServerError)
				return
			}

			result, err := fw.Allow(r.Context(), key)
			if err != nil {
				core.RespondError(w, core.ErrInternalServerError)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				core.RespondErrorMessage(w, core.ErrTooManyRequests,
					fmt.Sprintf("rate limit exceeded: %d requests per %s", fw.Limit(), fw.Window()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
