// Package cache holds a short-lived search response cache backed by Redis
// or Valkey. The cache is optional: a nil *SearchCache is valid and every
// method degrades to a no-op, so call sites never branch on configuration.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/contestsearch/contestsearch/internal/config"
)

// ErrCacheMiss is returned by Get when no entry exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// SearchCache stores serialized search responses keyed by the normalized
// query string.
type SearchCache struct {
	client rueidis.Client
	ttl    time.Duration
	prefix string
}

// New creates a SearchCache. With no configured addresses it returns
// (nil, nil), which disables caching.
func New(cfg config.CacheConfig) (*SearchCache, error) {
	if len(cfg.Addrs) == 0 {
		return nil, nil
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache client: %w", err)
	}
	return &SearchCache{
		client: client,
		ttl:    time.Duration(cfg.TTLSec) * time.Second,
		prefix: "contestsearch:",
	}, nil
}

// Get returns the cached response for key, or ErrCacheMiss.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}
	cmd := c.client.B().Get().Key(c.prefix + key).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return data, nil
}

// Set stores a response under key with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, key string, value []byte) error {
	if c == nil {
		return nil
	}
	cmd := c.client.B().Set().Key(c.prefix + key).Value(string(value)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Close shuts down the client. Safe on a nil cache.
func (c *SearchCache) Close() {
	if c == nil {
		return
	}
	c.client.Close()
}
