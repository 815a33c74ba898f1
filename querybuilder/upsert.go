package querybuilder

import (
	"strings"

	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/table"
)

// UpsertOptions parameterizes an INSERT ... ON CONFLICT/ON DUPLICATE KEY
// upsert. ConflictTargets names the unique/primary columns the insert may
// collide on; UpdateColumns names the columns to refresh from the
// incoming row when it does (read-only and AutoUpdate columns are
// expected to already be excluded by the CRUD engine, except
// AutoUpdateColumns which are always refreshed to dialect.Now()).
type UpsertOptions struct {
	Row               map[string]any
	ConflictTargets   []string
	UpdateColumns     []string
	AutoUpdateColumns []string
	Returning         []string
}

// CompileUpsert renders a single-row upsert statement for tbl.
func CompileUpsert(d dialect.Dialect, tbl *table.Table, opts UpsertOptions) (Compiled, error) {
	if len(opts.Row) == 0 {
		return Compiled{}, validationErr("upsert requires a row to insert")
	}
	if len(opts.ConflictTargets) == 0 {
		return Compiled{}, validationErr("upsert requires at least one conflict target")
	}

	cols := columnOrder(tbl, opts.Row)

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
	b.WriteString(") VALUES (")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		v := opts.Row[c]
		if _, isNow := v.(nowSentinel); isNow {
			b.WriteString(d.Now())
			continue
		}
		params = append(params, v)
		b.WriteString(d.Param(len(params)))
	}
	b.WriteString(") ")

	updateSet := make([]string, 0, len(opts.UpdateColumns)+len(opts.AutoUpdateColumns))
	for _, c := range opts.UpdateColumns {
		updateSet = append(updateSet, d.QuoteIdent(c)+" = "+d.ExcludedRef(c))
	}
	for _, c := range opts.AutoUpdateColumns {
		updateSet = append(updateSet, d.QuoteIdent(c)+" = "+d.Now())
	}
	b.WriteString(d.UpsertConflict(opts.ConflictTargets, updateSet))

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
