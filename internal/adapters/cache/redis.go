package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fediview/internal/adapters/fetch"
	"fediview/pkg/log"
)

// keyPrefix namespaces fetch-result keys in Redis.
const keyPrefix = "fediview:fetch:"

// RedisCache is a fetch cache backed by Redis, for deployments that run
// more than one viewer instance behind one cache. Cache errors degrade
// to misses; the fetch path never fails because of the cache.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a Redis-backed fetch cache.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get retrieves a cached fetch result by object URL.
func (c *RedisCache) Get(ctx context.Context, url string) (*fetch.Result, bool) {
	data, err := c.rdb.Get(ctx, keyPrefix+url).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.GlobalWarnCtx(ctx, "redis cache get failed", "url", url, "error", err)
		return nil, false
	}

	var result fetch.Result
	if err := json.Unmarshal(data, &result); err != nil {
		log.GlobalWarnCtx(ctx, "redis cache entry corrupt", "url", url, "error", err)
		return nil, false
	}
	return &result, true
}

// Set stores a fetch result with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, url string, result *fetch.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+url, data, c.ttl).Err(); err != nil {
		log.GlobalWarnCtx(ctx, "redis cache set failed", "url", url, "error", err)
	}
}
