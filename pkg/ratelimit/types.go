package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Limit is the maximum number of requests allowed per window.
	Limit int

	// Remaining is the request budget left in the current window.
	Remaining int

	// ResetAt is when the current window ends and the budget resets.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter checks and consumes request budget for a key.
type Limiter interface {
	// Allow consumes one slot for the key and reports whether the request
	// may proceed. Rejected requests still consume budget, so retry
	// storms cannot stretch a window.
	Allow(ctx context.Context, key string) (*Result, error)
}

// Store is the counter backend. The increment must be atomic with the
// read: two concurrent requests observing limit-1 and both proceeding is
// exactly the race this contract exists to prevent.
type Store interface {
	// IncrementAndGet atomically increments the counter for the key and
	// returns the post-increment value. The counter expires after ttl.
	IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Delete removes the counter for the key.
	Delete(ctx context.Context, key string) error
}
