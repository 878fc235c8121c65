package cache

import (
	"context"
	"encoding/json"
	"time"

	"unitfinder/internal/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lookup:"

// LookupCache stores finished lookup responses keyed by listing URL, so a
// re-submitted link skips the scrape and the strategy chain. A nil cache is
// valid and disables caching.
type LookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache backed by the given Redis address. Returns nil when
// addr is empty.
func New(addr string, ttl time.Duration) *LookupCache {
	if addr == "" {
		return nil
	}
	return &LookupCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Get returns the cached response for a URL, or nil on miss. Cache errors
// are treated as misses; the cache is an optimization, never a dependency.
func (c *LookupCache) Get(ctx context.Context, url string) *model.LookupResponse {
	if c == nil {
		return nil
	}

	val, err := c.client.Get(ctx, keyPrefix+url).Result()
	if err != nil {
		return nil
	}

	var resp model.LookupResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil
	}
	return &resp
}

// Set stores a response with the configured TTL.
func (c *LookupCache) Set(ctx context.Context, url string, resp *model.LookupResponse) {
	if c == nil {
		return
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, keyPrefix+url, b, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *LookupCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
