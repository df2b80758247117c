package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// MappingLoader returns the internal client id mapped to a vendor tenant, or nil.
type MappingLoader func(ctx context.Context, connectionID uint, externalClientID string) (*uint, error)

type mappingEntry struct {
	clientID *uint
	expires  time.Time
}

// MappingCache memoizes client mapping lookups for a TTL. Concurrent misses on
// the same key share one load through singleflight, so a page of a thousand
// items from one tenant costs a single query.
type MappingCache struct {
	load MappingLoader
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]mappingEntry
	sf      singleflight.Group
}

// NewMappingCache creates a cache. A zero ttl disables caching.
func NewMappingCache(load MappingLoader, ttl time.Duration) *MappingCache {
	return &MappingCache{
		load:    load,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]mappingEntry),
	}
}

func cacheKey(connectionID uint, externalClientID string) string {
	return fmt.Sprintf("%d:%s", connectionID, externalClientID)
}

// Get returns the mapped client id, loading it on a miss or after expiry.
func (c *MappingCache) Get(ctx context.Context, connectionID uint, externalClientID string) (*uint, error) {
	if c.ttl <= 0 {
		return c.load(ctx, connectionID, externalClientID)
	}

	key := cacheKey(connectionID, externalClientID)

	// Fast path
	if id, ok := c.lookup(key); ok {
		return id, nil
	}

	// Slow path: load once per key
	result, err, _ := c.sf.Do(key, func() (any, error) {
		if id, ok := c.lookup(key); ok {
			return id, nil
		}

		id, err := c.load(ctx, connectionID, externalClientID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = mappingEntry{clientID: id, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*uint), nil
}

func (c *MappingCache) lookup(key string) (*uint, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.clientID, true
}

// Invalidate drops every cached mapping of a connection.
func (c *MappingCache) Invalidate(connectionID uint) {
	prefix := fmt.Sprintf("%d:", connectionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
}
