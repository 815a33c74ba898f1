package querybuilder

import (
	"strings"

	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/shape"
	"github.com/quillorm/quill/table"
)

// OrderTerm is one ORDER BY entry.
type OrderTerm struct {
	Column string
	Desc   bool
}

// OrderBy is an ordered list of sort terms — a slice rather than a map so
// that entry order (which spec.md requires to be preserved) is
// representable at all in Go.
type OrderBy []OrderTerm

// Asc appends an ascending sort term.
func (o OrderBy) Asc(col string) OrderBy { return append(o, OrderTerm{Column: col}) }

// Desc appends a descending sort term.
func (o OrderBy) Desc(col string) OrderBy { return append(o, OrderTerm{Column: col, Desc: true}) }

// SelectOptions parameterizes a SELECT. Columns nil means "project every
// non-hidden column in declaration order" (select omitted); NotVisibility
// set to a tier ("sensitive" or "hidden") implements the select:{not:...}
// opt-out form. Columns and NotVisibility are mutually exclusive.
type SelectOptions struct {
	Columns       []string
	NotVisibility string
	Where         Where
	OrderBy       OrderBy
	Limit         *int
	Offset        *int
}

// ResolveColumns computes the final projected column list for opts against
// tbl's declared columns, honoring visibility tiers. CompileSelect builds
// its SELECT list from it.
func ResolveColumns(tbl *table.Table, opts SelectOptions) ([]string, error) {
	if len(opts.Columns) > 0 && opts.NotVisibility != "" {
		return nil, validationErr("select and not: are mutually exclusive")
	}
	if len(opts.Columns) > 0 {
		return opts.Columns, nil
	}
	// The default projection and every `not:` opt-out tier are derived
	// shapes over the same column metadata, not reimplemented here.
	switch opts.NotVisibility {
	case "sensitive":
		return shape.Names(shape.NotSensitive(tbl.Columns)), nil
	default:
		return shape.Names(shape.Read(tbl.Columns)), nil
	}
}

// CompileSelect renders a SELECT statement for tbl.
func CompileSelect(d dialect.Dialect, tbl *table.Table, opts SelectOptions) (Compiled, error) {
	cols, err := ResolveColumns(tbl, opts)
	if err != nil {
		return Compiled{}, err
	}
	var b strings.Builder
	var params []any

	b.WriteString("SELECT ")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.QuoteIdent(c))
	}
	b.WriteString(" FROM ")
	b.WriteString(d.QuoteIdent(tbl.Name))

	if where, err := CompileWhere(d, tbl, opts.Where, &params); err != nil {
		return Compiled{}, err
	} else if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	if len(opts.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, term := range opts.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.QuoteIdent(term.Column))
			if term.Desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}

	if opts.Limit != nil {
		b.WriteString(" LIMIT ")
		params = append(params, *opts.Limit)
		b.WriteString(d.Param(len(params)))
	}
	if opts.Offset != nil {
		b.WriteString(" OFFSET ")
		params = append(params, *opts.Offset)
		b.WriteString(d.Param(len(params)))
	}

	return Compiled{Text: b.String(), Params: params}, nil
}

// CompileCount renders `SELECT COUNT(*) FROM tbl WHERE ...` for the same
// where clause a list/listAndCount call would use.
func CompileCount(d dialect.Dialect, tbl *table.Table, where Where) (Compiled, error) {
	var b strings.Builder
	var params []any
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(d.QuoteIdent(tbl.Name))
	if w, err := CompileWhere(d, tbl, where, &params); err != nil {
		return Compiled{}, err
	} else if w != "" {
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}
	return Compiled{Text: b.String(), Params: params}, nil
}
