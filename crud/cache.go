package crud

import (
	"context"
	"fmt"
	"time"

	"github.com/quillorm/quill/querybuilder"
	"github.com/vmihailenco/msgpack/v5"
)

// defaultCacheTTL bounds how long a cached read may serve stale data once
// Config.Cache is configured. Writes invalidate eagerly (see
// invalidateCache), so this is a backstop, not the primary staleness
// control.
const defaultCacheTTL = 30 * time.Second

// cacheKey identifies a cached get/list result. It mirrors the root
// quill.CacheKey by shape, not by import, for the same reason crud.Cache
// mirrors quill.Cache: an engine built before the client exists still
// needs something to build lookup keys with.
type cacheKey struct {
	Table     string
	Operation string
	Where     querybuilder.Where
	OrderBy   querybuilder.OrderBy
	Limit     *int
	Offset    *int
}

// String renders the key deterministically; Where/OrderBy format via their
// Go value representation, which is stable for a given map/slice shape
// since fmt prints map keys in sorted order.
func (k cacheKey) String() string {
	return fmt.Sprintf("%s:%s:%v:%v:%s:%s", k.Table, k.Operation, k.Where, k.OrderBy, intPtrString(k.Limit), intPtrString(k.Offset))
}

func intPtrString(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

// cacheLookup returns the decoded cached value for key, or ok=false on a
// miss, a cache error, or a nil Cache.
func cacheLookup[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	raw, err := c.Get(ctx, key)
	if err != nil || raw == nil {
		return zero, false
	}
	var v T
	if err := msgpack.Unmarshal(raw, &v); err != nil {
		return zero, false
	}
	return v, true
}

// cacheStore encodes and stores v under key, ignoring encode/store errors:
// a cache write failure must never fail the operation whose result it is
// caching.
func cacheStore(ctx context.Context, c Cache, key string, v any) {
	if c == nil {
		return
	}
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, raw, defaultCacheTTL)
}

// invalidateCache drops every cached get/list result for this table. Every
// write operation (create/update/upsert/delete, singular or *Many) calls
// this after a successful write so reads never serve a row a write has
// since changed.
func (e *Engine) invalidateCache(ctx context.Context) {
	if e.Cache == nil {
		return
	}
	_ = e.Cache.DeletePrefix(ctx, e.table().Name+":")
}
