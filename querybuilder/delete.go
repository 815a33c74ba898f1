package querybuilder

import (
	"strings"

	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/table"
)

// DeleteOptions parameterizes a DELETE. Returning requests a RETURNING
// clause for single-row delete/getOrThrow-style callers (NOT_FOUND
// semantics); deleteMany callers leave it empty and rely on the affected
// row count instead.
type DeleteOptions struct {
	Where     Where
	Returning []string
}

// CompileDelete renders a DELETE statement for tbl.
func CompileDelete(d dialect.Dialect, tbl *table.Table, opts DeleteOptions) (Compiled, error) {
	var b strings.Builder
	var params []any

	b.WriteString("DELETE FROM ")
	b.WriteString(d.QuoteIdent(tbl.Name))

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
