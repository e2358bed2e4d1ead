package ratelimit

import (
	"context"
	"strconv"
	"time"
)

// FixedWindow counts requests in non-overlapping, wall-clock-aligned
// windows. A client can burst up to 2x the limit across a window boundary;
// this is an accepted approximation of the contract. Limit, window and
// rejection semantics stay identical if the store is ever swapped for a
// sliding implementation.
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
}

// NewFixedWindow creates a fixed-window limiter allowing limit requests
// per window.
func NewFixedWindow(store Store, limit int, window time.Duration) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	return &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
	}, nil
}

// Limit returns the configured per-window request limit.
func (fw *FixedWindow) Limit() int { return fw.limit }

// Window returns the configured window duration.
func (fw *FixedWindow) Window() time.Duration { return fw.window }

// Allow consumes one slot for the key. The counter key embeds the window
// start, so counters roll over naturally at window boundaries and expired
// windows simply age out of the store.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now().UTC()
	windowStart := now.Truncate(fw.window)
	counterKey := key + ":" + strconv.FormatInt(windowStart.Unix(), 10)

	count, err := fw.store.IncrementAndGet(ctx, counterKey, fw.window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   count <= int64(fw.limit),
		Limit:     fw.limit,
		Remaining: max(0, fw.limit-int(count)),
		ResetAt:   windowStart.Add(fw.window),
	}, nil
}

// Reset clears the current window's counter for the key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	windowStart := time.Now().UTC().Truncate(fw.window)
	return fw.store.Delete(ctx, key+":"+strconv.FormatInt(windowStart.Unix(), 10))
}
