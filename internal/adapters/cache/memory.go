// Package cache provides TTL caches for raw upstream fetch results.
// Only wire responses are cached; resolved trees are rebuilt per pass.
package cache

import (
	"context"
	"sync"
	"time"

	"fediview/internal/adapters/fetch"
)

// MemoryCache is an in-process fetch cache with TTL support.
type MemoryCache struct {
	entries sync.Map
	ttl     time.Duration
}

// cacheEntry holds a cached result with expiration metadata.
type cacheEntry struct {
	result    *fetch.Result
	expiresAt time.Time
	fetchedAt time.Time
}

// NewMemoryCache creates a new in-memory cache with the specified TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	cache := &MemoryCache{ttl: ttl}
	go cache.cleanup()
	return cache
}

// Get retrieves a cached fetch result by object URL.
// Returns the result and true if found and not expired.
func (c *MemoryCache) Get(_ context.Context, url string) (*fetch.Result, bool) {
	value, ok := c.entries.Load(url)
	if !ok {
		return nil, false
	}

	entry := value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(url)
		return nil, false
	}

	return entry.result, true
}

// Set stores a fetch result with the configured TTL.
func (c *MemoryCache) Set(_ context.Context, url string, result *fetch.Result) {
	now := time.Now()
	c.entries.Store(url, &cacheEntry{
		result:    result,
		expiresAt: now.Add(c.ttl),
		fetchedAt: now,
	})
}

// cleanup periodically removes expired entries.
func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		c.entries.Range(func(key, value interface{}) bool {
			entry := value.(*cacheEntry)
			if now.After(entry.expiresAt) {
				c.entries.Delete(key)
			}
			return true
		})
	}
}
