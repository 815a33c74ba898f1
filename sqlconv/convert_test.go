package sqlconv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quillorm/quill/column"
	"github.com/quillorm/quill/dialect"
)

func TestEncodeParamsSQLiteBoolAndTimestamp(t *testing.T) {
	cols := []column.Def{
		{Name: "enabled", SQLType: column.TypeBoolean},
		{Name: "createdAt", SQLType: column.TypeTimestampTZ},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := EncodeParams(dialect.Get(dialect.SQLite), cols, []any{true, now})
	assert.Equal(t, 1, out[0])
	assert.Equal(t, now.Format(time.RFC3339Nano), out[1])
}

func TestEncodeParamsInertOnPostgres(t *testing.T) {
	cols := []column.Def{{Name: "enabled", SQLType: column.TypeBoolean}}
	now := time.Now()
	out := EncodeParams(dialect.Get(dialect.Postgres), cols, []any{true, now})
	assert.Equal(t, []any{true, now}, out)
}

func TestDecodeRowSQLiteRoundTrip(t *testing.T) {
	cols := []column.Def{
		{Name: "enabled", SQLType: column.TypeBoolean},
		{Name: "createdAt", SQLType: column.TypeTimestampTZ},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := map[string]any{"enabled": int64(1), "createdAt": now.Format(time.RFC3339Nano)}
	out := DecodeRow(dialect.Get(dialect.SQLite), cols, row)
	assert.Equal(t, true, out["enabled"])
	assert.True(t, out["createdAt"].(time.Time).Equal(now))
}

func TestDecodeRowInertOnPostgres(t *testing.T) {
	cols := []column.Def{{Name: "enabled", SQLType: column.TypeBoolean}}
	row := map[string]any{"enabled": true}
	out := DecodeRow(dialect.Get(dialect.Postgres), cols, row)
	assert.Equal(t, row, out)
}
