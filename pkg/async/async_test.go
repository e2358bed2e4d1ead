package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christiananese/hustle-starter/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	future := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})

	result, err := future.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.True(t, future.IsComplete())
}

func TestAsyncError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	future := async.Async(context.Background(), struct{}{}, func(context.Context, struct{}) (struct{}, error) {
		return struct{}{}, wantErr
	})

	_, err := future.Await()
	assert.ErrorIs(t, err, wantErr)
}

func TestAsyncCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	future := async.Async(ctx, 0, func(_ context.Context, n int) (int, error) {
		t.Fatal("must not run with a canceled context")
		return n, nil
	})

	_, err := future.Await()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	future := async.Async(context.Background(), struct{}{}, func(context.Context, struct{}) (struct{}, error) {
		close(started)
		<-release
		return struct{}{}, nil
	})

	<-started
	_, err := future.AwaitWithTimeout(10 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)

	close(release)
	_, err = future.Await()
	assert.NoError(t, err)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	double := func(_ context.Context, n int) (int, error) { return n * 2, nil }

	results, err := async.WaitAll(
		async.Async(context.Background(), 1, double),
		async.Async(context.Background(), 2, double),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, results)
}
