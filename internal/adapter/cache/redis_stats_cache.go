package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gabzlaundry/gab/internal/usecase"
)

// RedisStatsCache holds dashboard aggregates as JSON blobs. Entries expire
// on their own; writers never invalidate.
type RedisStatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{rdb: rdb, ttl: ttl}
}

func (r *RedisStatsCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := r.rdb.Get(ctx, "gab:"+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Unreadable blobs count as misses and get overwritten on the next Set.
		return false, nil
	}
	return true, nil
}

func (r *RedisStatsCache) Set(ctx context.Context, key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, "gab:"+key, raw, r.ttl).Err()
}

var _ usecase.StatsCache = (*RedisStatsCache)(nil)
