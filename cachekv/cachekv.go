// Package cachekv implements the root quill.Cache interface with a basic
// in-process map cache, encoding values with msgpack — a realistic stand-
// in for the Redis/Memcached backends a production caller would plug in
// instead. Caching is always optional: every CRUD operation behaves
// identically with this cache absent.
package cachekv

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// entry is one cached value plus its absolute expiry (zero means no
// expiry).
type entry struct {
	value   []byte
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Cache is an in-process, mutex-guarded map cache. The zero value is not
// usable; construct with New.
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry

	// group collapses concurrent misses for the same key into a single
	// fetch, per spec §5's "thundering herd" concurrency note — callers
	// drive this through GetOrLoad, not Get/Set directly.
	group singleflight.Group
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{data: make(map[string]entry)}
}

// Get retrieves a value from the cache. Returns nil, nil if the key
// doesn't exist or has expired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		return nil, nil
	}
	return e.value, nil
}

// Set stores a value with an optional TTL. A zero ttl means "no expiry".
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.data[key] = entry{value: value, expires: expires}
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

// DeletePrefix removes all values whose key has the given prefix.
func (c *Cache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// Encode msgpack-encodes v for storage.
func Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode msgpack-decodes b into v.
func Decode(b []byte, v any) error {
	return msgpack.Unmarshal(b, v)
}

// GetOrLoad returns the cached, msgpack-decoded value for key if present;
// otherwise it calls load, caches the msgpack-encoded result with ttl, and
// returns it. Concurrent calls for the same key during a miss share one
// in-flight call to load via singleflight, collapsing a thundering herd
// into a single query.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var zero T

	if raw, err := c.Get(ctx, key); err != nil {
		return zero, err
	} else if raw != nil {
		var v T
		if err := Decode(raw, &v); err != nil {
			return zero, err
		}
		return v, nil
	}

	type result struct {
		v   T
		raw []byte
	}
	iface, err, _ := c.group.Do(key, func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		raw, err := Encode(v)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, raw, ttl); err != nil {
			return nil, err
		}
		return result{v: v, raw: raw}, nil
	})
	if err != nil {
		return zero, err
	}
	return iface.(result).v, nil
}
