package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces rate limit counters in a shared Redis instance.
const keyPrefix = "ratelimit:"

// RedisStore backs counters with Redis so the budget is shared across
// instances. INCR and EXPIRE NX run in one transactional pipeline: the
// increment is atomic and the TTL is set only on the first increment of a
// window, which keeps the counter aligned to the window that created it.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// IncrementAndGet implements Store.
func (s *RedisStore) IncrementAndGet(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, keyPrefix+key)
	pipe.ExpireNX(ctx, keyPrefix+key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("ratelimit: redis increment: %w", err)
	}

	return incr.Val(), nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("ratelimit: redis delete: %w", err)
	}
	return nil
}
