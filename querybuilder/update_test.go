package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/dialect"
)

func TestCompileUpdateSetAndWhere(t *testing.T) {
	d := dialect.Get(dialect.Postgres)
	tbl := usersTable()
	c, err := CompileUpdate(d, tbl, UpdateOptions{
		Data:  map[string]any{"name": "Bob"},
		Where: Where{"id": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = $1 WHERE "id" = $2`, c.Text)
	assert.Equal(t, []any{"Bob", "1"}, c.Params)
}

func TestCompileUpdateAutoUpdateColumnAlwaysSet(t *testing.T) {
	d := dialect.Get(dialect.Postgres)
	tbl := usersTable()
	c, err := CompileUpdate(d, tbl, UpdateOptions{
		Data:              map[string]any{},
		AutoUpdateColumns: []string{"updatedAt"},
		Where:             Where{"id": "1"},
	})
	require.NoError(t, err)
	assert.Contains(t, c.Text, `"updatedAt" = NOW()`)
	assert.Equal(t, []any{"1"}, c.Params)
}

func TestCompileUpdateEmptyPayloadIsValidationError(t *testing.T) {
	d := dialect.Get(dialect.Postgres)
	tbl := usersTable()
	_, err := CompileUpdate(d, tbl, UpdateOptions{Where: Where{"id": "1"}})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.False(t, ce.Unsupported)
}

func TestCompileUpdateReturning(t *testing.T) {
	d := dialect.Get(dialect.Postgres)
	tbl := usersTable()
	c, err := CompileUpdate(d, tbl, UpdateOptions{
		Data:      map[string]any{"name": "Bob"},
		Where:     Where{"id": "1"},
		Returning: []string{"id", "name"},
	})
	require.NoError(t, err)
	assert.Contains(t, c.Text, `RETURNING "id", "name"`)
}
