package querybuilder

import (
	"strings"

	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/table"
)

// MaxBatchInsert is the default cap on rows accepted by a single
// createMany/createManyAndReturn call before the engine must split the
// call into multiple statements.
const MaxBatchInsert = 1000

// InsertOptions parameterizes an INSERT. Rows is one map per row, each
// already filled with generated IDs and defaults by the caller (the CRUD
// engine), never computed here — this package only renders SQL. Returning,
// when non-empty, appends a RETURNING clause over those columns (or, on dialects without
// RETURNING support, the caller must follow up with a separate select).
type InsertOptions struct {
	Rows      []map[string]any
	Returning []string
}

// CompileInsert renders a single INSERT statement covering every row in
// opts.Rows sharing the same column set (the caller is responsible for
// ensuring every row provides the same keys — the CRUD engine fills
// defaults before calling in so this always holds).
func CompileInsert(d dialect.Dialect, tbl *table.Table, opts InsertOptions) (Compiled, error) {
	if len(opts.Rows) == 0 {
		return Compiled{}, validationErr("insert requires at least one row")
	}
	cols := columnOrder(tbl, opts.Rows[0])

	var b strings.Builder
	var params []any

	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteIdent(tbl.Name))
	b.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.QuoteIdent(c))
	}
	b.WriteString(") VALUES ")

	for ri, row := range opts.Rows {
		if ri > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for ci, c := range cols {
			if ci > 0 {
				b.WriteString(", ")
			}
			v, ok := row[c]
			if ok {
				if s, isNow := v.(nowSentinel); isNow {
					_ = s
					b.WriteString(d.Now())
					continue
				}
			}
			params = append(params, v)
			b.WriteString(d.Param(len(params)))
		}
		b.WriteString(")")
	}

	if len(opts.Returning) > 0 {
		if !d.SupportsReturning() {
			return Compiled{}, unsupportedErr("RETURNING is not supported on dialect " + d.Name())
		}
		b.WriteString(" RETURNING ")
		for i, c := range opts.Returning {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.QuoteIdent(c))
		}
	}

	return Compiled{Text: b.String(), Params: params}, nil
}

// nowSentinel marks a row value that must render as the dialect's current-
// timestamp expression (column.Now) rather than as a bound parameter.
type nowSentinel struct{}

// Now is the row-value placeholder the CRUD engine substitutes for any
// column carrying the column.Now default that the insert payload omits.
var Now = nowSentinel{}

// columnOrder returns row's keys in the table's declared column order,
// which is deterministic (unlike map iteration) and matches the order the
// CRUD engine already uses for row decoding.
func columnOrder(tbl *table.Table, row map[string]any) []string {
	cols := make([]string, 0, len(row))
	for _, c := range tbl.Columns {
		if _, ok := row[c.Name]; ok {
			cols = append(cols, c.Name)
		}
	}
	return cols
}
