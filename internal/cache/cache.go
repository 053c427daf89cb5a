package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small byte-level response cache for the public card
// endpoints. A nil *Cache is valid and caches nothing, so callers
// never branch on whether Redis is configured.
type Cache struct {
	r   *redis.Client
	ttl time.Duration
}

// Connect dials Redis and returns a cache with the given TTL.
// An empty addr returns (nil, nil): caching disabled.
func Connect(addr string, ttl time.Duration) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Cache{r: rdb, ttl: ttl}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.r.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *Cache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	c.r.Set(ctx, key, body, c.ttl)
}
