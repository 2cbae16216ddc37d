package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListingCache stores serialized listing data grouped by page path. Get
// reports the generation of path it looked at; Set only stores a value
// computed under the generation that is still current, so a load that
// raced an invalidation never repopulates the cache.
type ListingCache interface {
	Get(ctx context.Context, path, key string, dest interface{}) (found bool, generation int64, err error)
	Set(ctx context.Context, path, key string, generation int64, value interface{}) error
	Invalidate(ctx context.Context, path string) error
}

// RedisListingCache keeps listing data in Redis. Each path has a
// generation counter that is part of every entry key; invalidating a path
// bumps the counter, orphaning old entries until their TTL runs out.
type RedisListingCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisListingCache creates a listing cache on an existing client
func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{
		client:    client,
		keyPrefix: "listing:",
		ttl:       ttl,
	}
}

func (c *RedisListingCache) generationKey(path string) string {
	return c.keyPrefix + "gen:" + path
}

func (c *RedisListingCache) generation(ctx context.Context, path string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(path)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to read listing generation: %w", err)
	}
	return gen, nil
}

func (c *RedisListingCache) entryKey(path, key string, gen int64) string {
	return fmt.Sprintf("%s%s:%d:%s", c.keyPrefix, path, gen, key)
}

// Get loads the cached value into dest
func (c *RedisListingCache) Get(ctx context.Context, path, key string, dest interface{}) (bool, int64, error) {
	gen, err := c.generation(ctx, path)
	if err != nil {
		return false, 0, err
	}
	data, err := c.client.Get(ctx, c.entryKey(path, key, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, gen, nil
	}
	if err != nil {
		return false, gen, fmt.Errorf("failed to read listing cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, gen, fmt.Errorf("failed to decode cached listing: %w", err)
	}
	return true, gen, nil
}

// Set caches value under generation gen of path. A value written under a
// generation that was invalidated meanwhile lands on a key no reader uses.
func (c *RedisListingCache) Set(ctx context.Context, path, key string, gen int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	if err := c.client.Set(ctx, c.entryKey(path, key, gen), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write listing cache: %w", err)
	}
	return nil
}

// Invalidate starts a new generation for path
func (c *RedisListingCache) Invalidate(ctx context.Context, path string) error {
	if err := c.client.Incr(ctx, c.generationKey(path)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listing %s: %w", path, err)
	}
	return nil
}

var _ ListingCache = (*RedisListingCache)(nil)

type listingEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryListingCache is the single-instance listing cache
type InMemoryListingCache struct {
	mu          sync.RWMutex
	paths       map[string]map[string]listingEntry
	generations map[string]int64
	ttl         time.Duration
	now         func() time.Time
}

// NewInMemoryListingCache creates an empty in-memory listing cache
func NewInMemoryListingCache(ttl time.Duration) *InMemoryListingCache {
	return &InMemoryListingCache{
		paths:       make(map[string]map[string]listingEntry),
		generations: make(map[string]int64),
		ttl:         ttl,
		now:         time.Now,
	}
}

// Get loads the cached value into dest
func (c *InMemoryListingCache) Get(_ context.Context, path, key string, dest interface{}) (bool, int64, error) {
	c.mu.RLock()
	e, ok := c.paths[path][key]
	gen := c.generations[path]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return false, gen, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, gen, fmt.Errorf("failed to decode cached listing: %w", err)
	}
	return true, gen, nil
}

// Set caches value under path unless path was invalidated after gen was read
func (c *InMemoryListingCache) Set(_ context.Context, path, key string, gen int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[path] != gen {
		return nil
	}
	entries, ok := c.paths[path]
	if !ok {
		entries = make(map[string]listingEntry)
		c.paths[path] = entries
	}
	entries[key] = listingEntry{data: data, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops every entry of path and starts a new generation
func (c *InMemoryListingCache) Invalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.paths, path)
	c.generations[path]++
	return nil
}

var _ ListingCache = (*InMemoryListingCache)(nil)
