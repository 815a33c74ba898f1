package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/querybuilder"
	"github.com/quillorm/quill/sqlconv"
)

func TestCreateFillsGeneratedIDAndReturnsViaReturning(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "generated", "email": "a@example.com", "name": "Alice"}}},
	}}
	e := newTestEngine(usersTable(), q)

	res := e.Create(context.Background(), CreateOptions{Data: map[string]any{
		"email": "a@example.com",
		"name":  "Alice",
	}})
	row, err := res.Get()
	require.NoError(t, err)
	assert.Equal(t, "Alice", row["name"])
	require.Len(t, q.calls, 1)
	assert.Contains(t, q.calls[0].Text, "INSERT INTO")
	assert.Contains(t, q.calls[0].Text, "RETURNING")
}

func TestCreateRejectsEmptyData(t *testing.T) {
	q := &fakeQueryFn{}
	e := newTestEngine(usersTable(), q)

	res := e.Create(context.Background(), CreateOptions{})
	_, err := res.Get()
	require.Error(t, err)
	assert.Equal(t, KindValidation, err.(*Error).Kind)
}

func TestCreateStripsReadOnlyColumns(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{Rows: []map[string]any{{"id": "x"}}}}}
	e := newTestEngine(usersTable(), q)

	_ = e.Create(context.Background(), CreateOptions{Data: map[string]any{
		"email":     "a@example.com",
		"createdAt": "2000-01-01T00:00:00Z",
	}})
	require.Len(t, q.calls, 1)
	assert.NotContains(t, q.calls[0].Params, "2000-01-01T00:00:00Z")
}

func TestCreateManySplitsIntoBatches(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{RowCount: 2}, {RowCount: 1}}}
	e := newTestEngine(usersTable(), q)
	e.maxBatchInsert = 2

	rows := []map[string]any{
		{"email": "a@example.com"},
		{"email": "b@example.com"},
		{"email": "c@example.com"},
	}
	res := e.CreateMany(context.Background(), CreateManyOptions{Data: rows})
	n, err := res.Get()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Len(t, q.calls, 2)
}

func TestUpdateRaisesNotFoundOnNoMatch(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{Rows: nil}}}
	e := newTestEngine(usersTable(), q)

	res := e.Update(context.Background(), UpdateOptions{
		Where: querybuilder.Where{"id": "missing"},
		Data:  map[string]any{"name": "New"},
	})
	_, err := res.Get()
	require.Error(t, err)
	assert.Equal(t, KindNotFound, err.(*Error).Kind)
}

func TestUpdateRequiresData(t *testing.T) {
	q := &fakeQueryFn{}
	e := newTestEngine(usersTable(), q)

	res := e.Update(context.Background(), UpdateOptions{Where: querybuilder.Where{"id": "u1"}})
	_, err := res.Get()
	require.Error(t, err)
	assert.Equal(t, KindValidation, err.(*Error).Kind)
}

func TestUpdateManyNeverRaisesOnZeroMatches(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{RowCount: 0}}}
	e := newTestEngine(usersTable(), q)

	res := e.UpdateMany(context.Background(), UpdateOptions{Data: map[string]any{"name": "New"}})
	n, err := res.Get()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestUpsertConflictTargetsFromWhere(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{
		{Rows: []map[string]any{{"id": "u1", "email": "a@example.com", "name": "Alice"}}},
	}}
	e := newTestEngine(usersTable(), q)

	res := e.Upsert(context.Background(), UpsertOptions{
		Where:  querybuilder.Where{"email": "a@example.com"},
		Create: map[string]any{"email": "a@example.com", "name": "Alice"},
		Update: map[string]any{"name": "Alice"},
	})
	row, err := res.Get()
	require.NoError(t, err)
	assert.Equal(t, "Alice", row["name"])
	require.Len(t, q.calls, 1)
	assert.Contains(t, q.calls[0].Text, "ON CONFLICT")
}

func TestDeleteRaisesNotFoundOnNoMatch(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{Rows: nil}}}
	e := newTestEngine(usersTable(), q)

	res := e.Delete(context.Background(), DeleteOptions{Where: querybuilder.Where{"id": "missing"}})
	_, err := res.Get()
	require.Error(t, err)
	assert.Equal(t, KindNotFound, err.(*Error).Kind)
}

func TestDeleteManyNeverRaisesOnZeroMatches(t *testing.T) {
	q := &fakeQueryFn{responses: []sqlconv.Result{{RowCount: 0}}}
	e := newTestEngine(usersTable(), q)

	res := e.DeleteMany(context.Background(), DeleteOptions{})
	n, err := res.Get()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
