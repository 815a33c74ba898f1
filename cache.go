package quill

import (
	"context"
	"time"
)

// Cache is the interface for caching query results. Callers may implement
// this with their preferred backend (Redis, Memcached, in-process); quill
// ships a basic in-process implementation in the cachekv subpackage.
// Caching is entirely optional — every CRUD operation behaves identically
// with Config.Cache left nil.
type Cache interface {
	// Get retrieves a value from the cache. Returns nil, nil if the key
	// doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL. A zero ttl means "no expiry".
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values whose key has the given prefix —
	// used to invalidate every cached read for a table after a write.
	DeletePrefix(ctx context.Context, prefix string) error
}

// CacheKey identifies a cached query result.
type CacheKey struct {
	Table      string
	Operation  string
	Predicates string
	OrderBy    string
	Limit      int
	Offset     int
}

// String renders the cache key as a single string.
func (k CacheKey) String() string {
	return k.Table + ":" + k.Operation + ":" + k.Predicates + ":" + k.OrderBy
}
