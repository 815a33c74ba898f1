package sqlconv

import (
	"time"

	"github.com/quillorm/quill/column"
	"github.com/quillorm/quill/dialect"
)

// EncodeParams walks values positionally against cols (the statement's
// implicit column mapping, in bind order) and applies the per-dialect
// outbound conversion: under SQLite, bool -> 0/1 and time.Time -> ISO 8601.
// Every other dialect (and every non-bool/timestamp column) passes
// through unchanged.
func EncodeParams(d dialect.Dialect, cols []column.Def, values []any) []any {
	if d.Name() != dialect.SQLite {
		return values
	}
	out := make([]any, len(values))
	for i, v := range values {
		if i >= len(cols) {
			out[i] = v
			continue
		}
		out[i] = encodeValue(cols[i].SQLType, v)
	}
	return out
}

func encodeValue(t column.SQLType, v any) any {
	switch t {
	case column.TypeBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return 1
			}
			return 0
		}
	case column.TypeTimestampTZ, column.TypeDate, column.TypeTime:
		if tm, ok := v.(time.Time); ok {
			return tm.UTC().Format(time.RFC3339Nano)
		}
	}
	return v
}

// DecodeRow applies the inbound conversion to a single decoded row, keyed
// by column name, using tbl's column metadata. Inert under every dialect
// but SQLite.
func DecodeRow(d dialect.Dialect, cols []column.Def, row map[string]any) map[string]any {
	if d.Name() != dialect.SQLite {
		return row
	}
	out := make(map[string]any, len(row))
	byName := make(map[string]column.Def, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	for k, v := range row {
		def, ok := byName[k]
		if !ok {
			out[k] = v
			continue
		}
		out[k] = decodeValue(def.SQLType, v)
	}
	return out
}

func decodeValue(t column.SQLType, v any) any {
	switch t {
	case column.TypeBoolean:
		switch n := v.(type) {
		case int64:
			return n != 0
		case int:
			return n != 0
		}
	case column.TypeTimestampTZ, column.TypeDate, column.TypeTime:
		if s, ok := v.(string); ok {
			if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return parsed
			}
		}
	}
	return v
}
