package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const cacheKeyPrefix = "directory:"

// CacheRepository stores JSON-encoded navigation data (regions, sub-regions).
type CacheRepository interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	// Incr atomically bumps an integer counter and returns the new value.
	// The counter is readable through Get.
	Incr(ctx context.Context, key string) (int64, error)
}

type cacheRepository struct {
	redis *RedisDB
}

func NewCacheRepository(redis *RedisDB) CacheRepository {
	return &cacheRepository{redis: redis}
}

func (r *cacheRepository) Get(ctx context.Context, key string, dest any) error {
	data, err := r.redis.Client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return r.redis.Client.Set(ctx, r.key(key), data, ttl).Err()
}

// DeletePrefix removes every key starting with prefix.
func (r *cacheRepository) DeletePrefix(ctx context.Context, prefix string) error {
	iter := r.redis.Client.Scan(ctx, 0, r.key(prefix)+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	return r.redis.Client.Del(ctx, keys...).Err()
}

func (r *cacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.redis.Client.Incr(ctx, r.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment cache counter: %w", err)
	}
	return n, nil
}

func (r *cacheRepository) key(key string) string {
	return cacheKeyPrefix + key
}
