package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/querybuilder"
	"github.com/quillorm/quill/sqlconv"
)

func TestGetReturnsNilRowWhenNoneMatch(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{Rows: nil}}}
	e := newTestEngine(usersTable(), q)

	res := e.Get(context.Background(), GetOptions{Where: querybuilder.Where{"id": "u1"}})
	row, err := res.Get()
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGetRequiresWhere(t *testing.T) {
	q := &fakeQueryFn{}
	e := newTestEngine(usersTable(), q)

	res := e.Get(context.Background(), GetOptions{})
	_, err := res.Get()
	require.Error(t, err)
	assert.Equal(t, KindValidation, err.(*Error).Kind)
}

func TestGetOrThrowRaisesNotFound(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{Rows: nil}}}
	e := newTestEngine(usersTable(), q)

	res := e.GetOrThrow(context.Background(), GetOptions{Where: querybuilder.Where{"id": "u1"}})
	_, err := res.Get()
	require.Error(t, err)
	assert.Equal(t, KindNotFound, err.(*Error).Kind)
}

func TestListAndCount(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
		{Rows: []map[string]any{{"count": int64(1)}}},
	}}
	e := newTestEngine(usersTable(), q)

	res := e.ListAndCount(context.Background(), ListOptions{})
	out, err := res.Get()
	require.NoError(t, err)
	assert.Len(t, out.Rows, 1)
	assert.EqualValues(t, 1, out.Count)
	assert.Len(t, q.calls, 2)
}

func TestCountEmptyResult(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{Rows: nil}}}
	e := newTestEngine(usersTable(), q)

	res := e.Count(context.Background(), CountOptions{})
	n, err := res.Get()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestListExpandsToManyInclude(t *testing.T) {
	usersQ := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}, {"id": "u2", "name": "Bob"}}},
	}}
	postsQ := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{
			{"id": "p1", "authorId": "u1", "title": "Hello"},
			{"id": "p2", "authorId": "u1", "title": "World"},
		}},
	}}
	usersEngine, _ := usersWithPostsEngines(usersQ, postsQ)

	res := usersEngine.List(context.Background(), ListOptions{Include: Include{"posts": true}})
	rows, err := res.Get()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	u1Posts, ok := rows[0]["posts"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, u1Posts, 2)

	u2Posts, ok := rows[1]["posts"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, u2Posts, 0)
}

func TestGetExpandsToOneInclude(t *testing.T) {
	postsQ := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "p1", "authorId": "u1", "title": "Hello"}}},
	}}
	usersQ := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "name": "Alice"}}},
	}}
	_, postsEngine := usersWithPostsEngines(usersQ, postsQ)

	res := postsEngine.Get(context.Background(), GetOptions{
		Where:   querybuilder.Where{"id": "p1"},
		Include: Include{"author": true},
	})
	row, err := res.Get()
	require.NoError(t, err)
	require.NotNil(t, row)
	author, ok := row["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", author["name"])
}
