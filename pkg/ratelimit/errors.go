package ratelimit

import "errors"

var (
	// ErrStoreRequired is returned when a limiter is constructed without a
	// counter store.
	ErrStoreRequired = errors.New("ratelimit: store is required")

	// ErrInvalidLimit is returned for non-positive request limits.
	ErrInvalidLimit = errors.New("ratelimit: limit must be positive")

	// ErrInvalidWindow is returned for non-positive window durations.
	ErrInvalidWindow = errors.New("ratelimit: window must be positive")

	// ErrKeyRequired is returned when an empty key is checked.
	ErrKeyRequired = errors.New("ratelimit: key is required")
)
