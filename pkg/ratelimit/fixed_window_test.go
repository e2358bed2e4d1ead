package ratelimit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christiananese/hustle-starter/pkg/ratelimit"
)

func TestNewFixedWindow(t *testing.T) {
	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))

	_, err := ratelimit.NewFixedWindow(nil, 10, time.Minute)
	assert.ErrorIs(t, err, ratelimit.ErrStoreRequired)

	_, err = ratelimit.NewFixedWindow(store, 0, time.Minute)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)

	_, err = ratelimit.NewFixedWindow(store, 10, 0)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidWindow)

	fw, err := ratelimit.NewFixedWindow(store, 10, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 10, fw.Limit())
	assert.Equal(t, time.Minute, fw.Window())
}

func TestFixedWindowBudget(t *testing.T) {
	// Long window so the test never straddles a boundary.
	fw, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0)), 10, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()

	// Requests 1..N succeed.
	for i := 1; i <= 10; i++ {
		result, err := fw.Allow(ctx, "key-1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d must be allowed", i)
		assert.Equal(t, 10-i, result.Remaining)
	}

	// Requests N+1..2N are all rejected; the increments still stand.
	for i := 11; i <= 20; i++ {
		result, err := fw.Allow(ctx, "key-1")
		require.NoError(t, err)
		assert.False(t, result.Allowed, "request %d must be rejected", i)
		assert.Equal(t, 0, result.Remaining)
		assert.Positive(t, result.RetryAfter())
	}

	// Budgets are independent per key.
	result, err := fw.Allow(ctx, "key-2")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestFixedWindowRollover(t *testing.T) {
	// A short window demonstrates that the next window admits requests
	// again after exhaustion.
	fw, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0)), 1, 50*time.Millisecond)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := fw.Allow(ctx, "key")
	require.NoError(t, err)
	require.True(t, first.Allowed)

	second, err := fw.Allow(ctx, "key")
	require.NoError(t, err)
	require.False(t, second.Allowed)

	// Wait past the window boundary.
	time.Sleep(time.Until(second.ResetAt) + 10*time.Millisecond)

	third, err := fw.Allow(ctx, "key")
	require.NoError(t, err)
	assert.True(t, third.Allowed, "next window must admit requests")
}

func TestFixedWindowConcurrent(t *testing.T) {
	// With 100 concurrent requests against a limit of 50, exactly 50 may
	// pass: the atomic increment-and-read leaves no room for the
	// check-then-act race.
	const (
		limit    = 50
		requests = 100
	)

	fw, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0)), limit, time.Hour)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)

	for range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fw.Allow(context.Background(), "shared")
			if err == nil && result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}

func TestMiddleware(t *testing.T) {
	fw, err := ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0)), 2, time.Hour)
	require.NoError(t, err)

	keyFunc := func(r *http.Request) string { return r.Header.Get("X-Test-Key") }

	handler := ratelimit.Middleware(fw, keyFunc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	issue := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Test-Key", key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := issue("k")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = issue("k")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = issue("k")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 requests per 1h0m0s")

	reset, err := strconv.ParseInt(rec.Header().Get("X-RateLimit-Reset"), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, reset, time.Now().Unix())

	// Missing key means the middleware is wired before authentication.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
