package crud

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/querybuilder"
	"github.com/quillorm/quill/relation"
	"github.com/quillorm/quill/sqlconv"
	"github.com/quillorm/quill/table"
)

// fakeCache is a minimal in-process Cache test double, independent of the
// cachekv package so crud's tests don't need to import it.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func TestGetServesSecondCallFromCacheWithoutQuerying(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
	}}
	cache := newFakeCache()
	e := New(dialect.NewPostgres(), q.fn(), Model{Table: usersTable()}, cache, nil)

	opts := GetOptions{Where: querybuilder.Where{"id": "u1"}}
	first := e.Get(context.Background(), opts)
	row, err := first.Get()
	require.NoError(t, err)
	assert.Equal(t, "Alice", row["name"])
	require.Len(t, q.calls, 1)

	second := e.Get(context.Background(), opts)
	row2, err := second.Get()
	require.NoError(t, err)
	assert.Equal(t, "Alice", row2["name"])
	assert.Len(t, q.calls, 1, "second get should be served from cache, not re-query the driver")
}

func TestGetWithIncludeBypassesCache(t *testing.T) {
	postsQ := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "p1", "authorId": "u1", "title": "Hello"}}},
		{Rows: []map[string]any{{"id": "p1", "authorId": "u1", "title": "Hello"}}},
	}}
	usersQ := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
	}}
	cache := newFakeCache()
	usersTbl := usersTable()
	postsTbl := postsTable()
	usersEngine := New(dialect.NewPostgres(), usersQ.fn(), Model{Table: usersTbl}, cache, nil)
	postsEngine := New(dialect.NewPostgres(), postsQ.fn(), Model{Table: postsTbl}, cache, nil)
	postsEngine.Model.Relations = map[string]relation.Relation{
		"author": relation.One(func() *table.Table { return usersTbl }, "authorId"),
	}

	opts := GetOptions{Where: querybuilder.Where{"id": "p1"}, Include: Include{"author": true}}
	postsEngine.Resolve = func(name string) (*Engine, relation.Def, bool) {
		r, ok := postsEngine.Model.Relations[name]
		if !ok {
			return nil, relation.Def{}, false
		}
		return usersEngine, r.Descriptor(), true
	}

	_, err := postsEngine.Get(context.Background(), opts).Get()
	require.NoError(t, err)
	require.Len(t, postsQ.calls, 1)
	require.Len(t, usersQ.calls, 1)

	_, err = postsEngine.Get(context.Background(), opts).Get()
	require.NoError(t, err)
	assert.Len(t, postsQ.calls, 2, "an include:true get must not be cached")
	assert.Len(t, usersQ.calls, 2)
}

func TestListServesSecondCallFromCacheWithoutQuerying(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
	}}
	cache := newFakeCache()
	e := New(dialect.NewPostgres(), q.fn(), Model{Table: usersTable()}, cache, nil)

	opts := ListOptions{Where: querybuilder.Where{"active": true}}
	rows1, err := e.List(context.Background(), opts).Get()
	require.NoError(t, err)
	require.Len(t, rows1, 1)
	require.Len(t, q.calls, 1)

	rows2, err := e.List(context.Background(), opts).Get()
	require.NoError(t, err)
	require.Len(t, rows2, 1)
	assert.Len(t, q.calls, 1, "second list should be served from cache")
}

func TestCreateInvalidatesCachedGet(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
		{Rows: []map[string]any{{"id": "u1", "name": "Bob"}}},
	}}
	cache := newFakeCache()
	e := New(dialect.NewPostgres(), q.fn(), Model{Table: usersTable()}, cache, nil)

	opts := GetOptions{Where: querybuilder.Where{"id": "u1"}}
	_, err := e.Get(context.Background(), opts).Get()
	require.NoError(t, err)
	require.Len(t, q.calls, 1)

	_, err = e.Create(context.Background(), CreateOptions{Data: map[string]any{"email": "b@example.com", "name": "Bob"}}).Get()
	require.NoError(t, err)

	row, err := e.Get(context.Background(), opts).Get()
	require.NoError(t, err)
	assert.Equal(t, "Bob", row["name"], "create should invalidate the cached get, not serve the stale pre-write row")
	assert.Len(t, q.calls, 3)
}
