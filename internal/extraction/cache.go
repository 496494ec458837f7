package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores extraction results keyed by a digest of the input, so a
// re-upload of the same document skips recognition entirely.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Set(ctx context.Context, key string, res *Result) error
}

const (
	extractionKeyPrefix = "extraction:result:"
	defaultCacheTTL     = 15 * time.Minute
)

// RedisCache is the Redis-backed cache used when the deployment has a
// shared Redis. Single-instance deployments run without a cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Result, bool, error) {
	raw, err := c.client.Get(ctx, extractionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		// A corrupt entry behaves like a miss; the fresh result will
		// overwrite it.
		return nil, false, nil
	}
	return &res, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, res *Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, extractionKeyPrefix+key, raw, c.ttl).Err()
}
