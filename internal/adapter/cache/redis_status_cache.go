package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

// RedisStatusCache keeps the latest order status hot so the poll endpoint
// does not hammer MySQL. Misses fall through to the store.
type RedisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatusCache(rdb *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{rdb: rdb, ttl: ttl}
}

func statusKey(orderID string) string { return "gab:order:status:" + orderID }

func (r *RedisStatusCache) SetStatus(ctx context.Context, orderID string, status domain.Status) error {
	return r.rdb.Set(ctx, statusKey(orderID), string(status), r.ttl).Err()
}

func (r *RedisStatusCache) GetStatus(ctx context.Context, orderID string) (domain.Status, bool, error) {
	val, err := r.rdb.Get(ctx, statusKey(orderID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	status, err := domain.ParseStatus(val)
	if err != nil {
		// A stale or foreign value is a miss, not a failure.
		return "", false, nil
	}
	return status, true, nil
}

var _ usecase.StatusCache = (*RedisStatusCache)(nil)
