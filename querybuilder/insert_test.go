package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/dialect"
)

func TestCompileInsertSingleRow(t *testing.T) {
	d := dialect.Get(dialect.Postgres)
	tbl := usersTable()
	c, err := CompileInsert(d, tbl, InsertOptions{
		Rows:      []map[string]any{{"id": "1", "email": "a@b", "name": "Alice"}},
		Returning: []string{"id"},
	})
	require.NoError(t, err)
	assert.Contains(t, c.Text, `INSERT INTO "users"`)
	assert.Contains(t, c.Text, "VALUES ($1, $2, $3)")
	assert.Contains(t, c.Text, `RETURNING "id"`)
	assert.Equal(t, []any{"1", "a@b", "Alice"}, c.Params)
}

func TestCompileInsertMultiRow(t *testing.T) {
	d := dialect.Get(dialect.Postgres)
	tbl := usersTable()
	c, err := CompileInsert(d, tbl, InsertOptions{
		Rows: []map[string]any{
			{"id": "1", "email": "a@b", "name": "Alice"},
			{"id": "2", "email": "c@d", "name": "Bob"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, c.Text, "VALUES ($1, $2, $3), ($4, $5, $6)")
	assert.Equal(t, []any{"1", "a@b", "Alice", "2", "c@d", "Bob"}, c.Params)
}

func TestCompileInsertNowSentinelInlinesDialectNow(t *testing.T) {
	d := dialect.Get(dialect.Postgres)
	tbl := usersTable()
	c, err := CompileInsert(d, tbl, InsertOptions{
		Rows: []map[string]any{{"id": "1", "email": "a@b", "name": Now}},
	})
	require.NoError(t, err)
	assert.Contains(t, c.Text, "NOW()")
	assert.NotContains(t, c.Params, Now)
}

func TestCompileInsertReturningUnsupportedOnMySQL(t *testing.T) {
	d := dialect.Get(dialect.MySQL)
	tbl := usersTable()
	_, err := CompileInsert(d, tbl, InsertOptions{
		Rows:      []map[string]any{{"id": "1", "email": "a@b", "name": "Alice"}},
		Returning: []string{"id"},
	})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Unsupported)
}

func TestCompileInsertRequiresAtLeastOneRow(t *testing.T) {
	_, err := CompileInsert(dialect.Get(dialect.Postgres), usersTable(), InsertOptions{})
	require.Error(t, err)
}
