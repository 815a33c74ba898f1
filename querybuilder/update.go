package querybuilder

import (
	"strings"

	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/table"
)

// UpdateOptions parameterizes an UPDATE. Data holds caller-supplied column
// values with read-only columns already stripped by the CRUD engine;
// AutoUpdateColumns are appended to the SET list unconditionally (as
// dialect.Now()), regardless of whether Data mentions them. Returning
// requests a RETURNING clause for single-row update/getOrThrow-style
// callers; updateMany callers leave it empty and rely on the affected
// row count instead.
type UpdateOptions struct {
	Data              map[string]any
	AutoUpdateColumns []string
	Where             Where
	Returning         []string
}

// CompileUpdate renders an UPDATE statement for tbl.
func CompileUpdate(d dialect.Dialect, tbl *table.Table, opts UpdateOptions) (Compiled, error) {
	if len(opts.Data) == 0 && len(opts.AutoUpdateColumns) == 0 {
		return Compiled{}, validationErr("update requires at least one column to set")
	}

	var b strings.Builder
	var params []any

	b.WriteString("UPDATE ")
	b.WriteString(d.QuoteIdent(tbl.Name))
	b.WriteString(" SET ")

	cols := columnOrder(tbl, opts.Data)
	auto := make(map[string]bool, len(opts.AutoUpdateColumns))
	for _, c := range opts.AutoUpdateColumns {
		auto[c] = true
	}

	first := true
	for _, c := range cols {
		if auto[c] {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(d.QuoteIdent(c))
		b.WriteString(" = ")
		params = append(params, opts.Data[c])
		b.WriteString(d.Param(len(params)))
	}
	for _, c := range opts.AutoUpdateColumns {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(d.QuoteIdent(c))
		b.WriteString(" = ")
		b.WriteString(d.Now())
	}

	if w, err := CompileWhere(d, tbl, opts.Where, &params); err != nil {
		return Compiled{}, err
	} else if w != "" {
		b.WriteString(" WHERE ")
		b.WriteString(w)
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
