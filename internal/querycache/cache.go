// Package querycache is the in-memory read cache between the page
// controllers and the gateway. Entries are addressed by (resource, params);
// a successful mutation invalidates its resource so the next read re-fetches
// instead of patching optimistically.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"golang.org/x/sync/singleflight"
)

// TopicInvalidated is published with the resource name on every invalidation.
const TopicInvalidated = "cache.invalidated"

type entry struct {
	value   interface{}
	expires time.Time
}

// Cache is safe for concurrent use. Concurrent fetches for the same key are
// deduplicated, so a burst of page loads issues one upstream call.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
	epoch   uint64
	ttl     time.Duration
	bus     EventBus.Bus
	group   singleflight.Group
}

// New builds a cache. ttl <= 0 keeps entries until they are invalidated.
func New(ttl time.Duration, bus EventBus.Bus) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		bus:     bus,
	}
}

// Key builds the content address for a resource and its parameters.
func Key(resource string, params ...string) string {
	if len(params) == 0 {
		return resource
	}
	return resource + "|" + strings.Join(params, "|")
}

func (c *Cache) lookup(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

// generation snapshots the invalidation state a fetch starts under.
func (c *Cache) generation(resource string) (uint64, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[resource], c.epoch
}

// storeIfCurrent caches the value unless the resource was invalidated (or the
// cache flushed) after the generation snapshot; a fetch that raced a mutation
// must not resurrect pre-mutation data.
func (c *Cache) storeIfCurrent(key, resource string, value interface{}, gen, epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[resource] != gen || c.epoch != epoch {
		return false
	}
	e := entry{value: value}
	if c.ttl > 0 {
		e.expires = time.Now().Add(c.ttl)
	}
	c.entries[key] = e
	return true
}

// Invalidate drops every entry of the resource, whatever its parameters,
// and broadcasts the invalidation.
func (c *Cache) Invalidate(resource string) {
	prefix := resource + "|"
	c.mu.Lock()
	for key := range c.entries {
		if key == resource || strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.gens[resource]++
	c.mu.Unlock()
	c.bus.Publish(TopicInvalidated, resource)
}

// Flush drops everything; used by the background refresh sweep.
func (c *Cache) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.epoch++
	c.mu.Unlock()
}

// Sweep removes expired entries so long-lived processes do not accumulate
// dead parameterized keys.
func (c *Cache) Sweep() {
	now := time.Now()
	c.mu.Lock()
	for key, e := range c.entries {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Len reports the live entry count.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrFetch returns the cached value for (resource, params) or runs fetch
// and caches its result. Fetch errors are never cached.
func GetOrFetch[T any](ctx context.Context, c *Cache, resource string, params []string, fetch func(context.Context) (T, error)) (T, error) {
	key := Key(resource, params...)
	if v, ok := c.lookup(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		gen, epoch := c.generation(resource)
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if !c.storeIfCurrent(key, resource, fetched, gen, epoch) {
			// the result predates an invalidation; hand it to the waiting
			// callers but make the next read fetch again
			c.group.Forget(key)
		}
		return fetched, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
