package querybuilder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/table"
)

// Note: CompileError, validationErr and unsupportedErr are defined in
// compiled.go and shared across the package's builders.

// Reserved keys for boolean composition inside a Where map.
const (
	KeyAnd = "AND"
	KeyOr  = "OR"
	KeyNot = "NOT"
)

// Where is a mapping from column name to either a direct value (implicit
// equality; nil means IS NULL) or an Op bag describing a richer predicate.
// The three reserved keys AND/OR/NOT hold nested boolean composition:
// AND/OR map to []Where, NOT maps to a single Where.
type Where map[string]any

// Op is the operator bag a Where entry may hold instead of a direct value.
// Only one field should be set per Op value; which one is set determines
// the operator.
type Op struct {
	Eq, Ne, Gt, Gte, Lt, Lte any
	In, NotIn                []any
	Contains                 any
	StartsWith               any
	EndsWith                 any
	Like                     any
	IsNull                   *bool
	ArrayContains            any
	ArrayContainedBy         any
	ArrayOverlaps            any
	JSONContains             any
	// Mode, when "insensitive", makes Contains/StartsWith/EndsWith/Like
	// case-insensitive (ILIKE on Postgres; LIKE + COLLATE NOCASE on SQLite;
	// LIKE on MySQL, which is case-insensitive under its default collation).
	Mode string
}

// CompileWhere renders w into a boolean SQL expression and appends any
// bound values to params, using d.Param for placeholder numbering
// (positions continue from the current length of *params). Returns ""
// (and appends no new params) if w is empty.
func CompileWhere(d dialect.Dialect, tbl *table.Table, w Where, params *[]any) (string, error) {
	if len(w) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(w))
	for key := range w {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		val := w[key]
		switch key {
		case KeyAnd, KeyOr:
			nested, ok := val.([]Where)
			if !ok {
				return "", validationErr(fmt.Sprintf("%s must be a list of filters", key))
			}
			var sub []string
			for _, n := range nested {
				s, err := CompileWhere(d, tbl, n, params)
				if err != nil {
					return "", err
				}
				if s != "" {
					sub = append(sub, "("+s+")")
				}
			}
			if len(sub) == 0 {
				continue
			}
			sep := " AND "
			if key == KeyOr {
				sep = " OR "
			}
			parts = append(parts, "("+strings.Join(sub, sep)+")")
		case KeyNot:
			nested, ok := val.(Where)
			if !ok {
				return "", validationErr("NOT must be a single filter")
			}
			s, err := CompileWhere(d, tbl, nested, params)
			if err != nil {
				return "", err
			}
			if s != "" {
				parts = append(parts, "NOT ("+s+")")
			}
		default:
			if _, ok := tbl.Column(key); !ok {
				return "", validationErr(fmt.Sprintf("unknown column %q on table %q", key, tbl.Name))
			}
			expr, err := compileColumnPredicate(d, tbl, key, val, params)
			if err != nil {
				return "", err
			}
			parts = append(parts, expr)
		}
	}
	return strings.Join(parts, " AND "), nil
}

func compileColumnPredicate(d dialect.Dialect, tbl *table.Table, col string, val any, params *[]any) (string, error) {
	ident := d.QuoteIdent(col)

	switch v := val.(type) {
	case Op:
		return compileOp(d, tbl, ident, col, v, params)
	default:
		if val == nil {
			return ident + " IS NULL", nil
		}
		*params = append(*params, val)
		return ident + " = " + d.Param(len(*params)), nil
	}
}

func compileOp(d dialect.Dialect, tbl *table.Table, ident, col string, op Op, params *[]any) (string, error) {
	bind := func(v any) string {
		*params = append(*params, v)
		return d.Param(len(*params))
	}
	switch {
	case op.Eq != nil:
		return ident + " = " + bind(op.Eq), nil
	case op.Ne != nil:
		return ident + " <> " + bind(op.Ne), nil
	case op.Gt != nil:
		return ident + " > " + bind(op.Gt), nil
	case op.Gte != nil:
		return ident + " >= " + bind(op.Gte), nil
	case op.Lt != nil:
		return ident + " < " + bind(op.Lt), nil
	case op.Lte != nil:
		return ident + " <= " + bind(op.Lte), nil
	case op.In != nil:
		if len(op.In) == 0 {
			return "1=0", nil
		}
		ph := make([]string, len(op.In))
		for i, v := range op.In {
			ph[i] = bind(v)
		}
		return ident + " IN (" + strings.Join(ph, ", ") + ")", nil
	case op.NotIn != nil:
		if len(op.NotIn) == 0 {
			return "1=1", nil
		}
		ph := make([]string, len(op.NotIn))
		for i, v := range op.NotIn {
			ph[i] = bind(v)
		}
		return ident + " NOT IN (" + strings.Join(ph, ", ") + ")", nil
	case op.Contains != nil:
		return likeExprValue(d, ident, "%"+escapeLike(fmt.Sprint(op.Contains))+"%", op.Mode, true, bind)
	case op.StartsWith != nil:
		return likeExprValue(d, ident, escapeLike(fmt.Sprint(op.StartsWith))+"%", op.Mode, true, bind)
	case op.EndsWith != nil:
		return likeExprValue(d, ident, "%"+escapeLike(fmt.Sprint(op.EndsWith)), op.Mode, true, bind)
	case op.Like != nil:
		// Like passes the caller's raw pattern through unescaped: the
		// caller is supplying the SQL LIKE pattern directly, wildcards
		// included, unlike Contains/StartsWith/EndsWith which derive the
		// pattern from a literal operand. No ESCAPE clause is added since
		// the caller's pattern may use its own escape convention or none.
		return likeExprValue(d, ident, fmt.Sprint(op.Like), op.Mode, false, bind)
	case op.IsNull != nil:
		if *op.IsNull {
			return ident + " IS NULL", nil
		}
		return ident + " IS NOT NULL", nil
	case op.ArrayContains != nil:
		if !d.SupportsArrayOps() {
			return "", unsupportedOp("arrayContains", d)
		}
		return ident + " @> " + bind(op.ArrayContains), nil
	case op.ArrayContainedBy != nil:
		if !d.SupportsArrayOps() {
			return "", unsupportedOp("arrayContainedBy", d)
		}
		return ident + " <@ " + bind(op.ArrayContainedBy), nil
	case op.ArrayOverlaps != nil:
		if !d.SupportsArrayOps() {
			return "", unsupportedOp("arrayOverlaps", d)
		}
		return ident + " && " + bind(op.ArrayOverlaps), nil
	case op.JSONContains != nil:
		if !d.SupportsJSONBPath() {
			return "", unsupportedOp("jsonContains", d)
		}
		return ident + " @> " + bind(op.JSONContains), nil
	default:
		return "", validationErr(fmt.Sprintf("empty operator bag for column %q", col))
	}
}

// likeExprValue binds the already-escaped, already-wildcarded pattern as a
// single parameter and renders the LIKE/ILIKE expression around it. escaped
// is true when pattern went through escapeLike, in which case an explicit
// ESCAPE '\' clause is required: Postgres and MySQL default their LIKE
// escape character to backslash, so it happens to work without one there,
// but SQLite has no default LIKE escape character at all — without the
// clause its planner treats the backslash as a literal and % / _ keep
// matching as wildcards.
func likeExprValue(d dialect.Dialect, ident, pattern, mode string, escaped bool, bind func(any) string) (string, error) {
	ph := bind(pattern)
	op := "LIKE"
	collate := ""
	if mode == "insensitive" {
		op = d.ILikeOperator()
		if op == "LIKE" {
			collate = d.CollateNoCase()
		}
	}
	escapeClause := ""
	if escaped {
		escapeClause = ` ESCAPE '\'`
	}
	return ident + " " + op + " " + ph + escapeClause + collate, nil
}

// escapeLike escapes LIKE metacharacters (% and _) in a user-supplied
// operand so Contains/StartsWith/EndsWith only ever match the operand
// literally, with the wildcard added by quill itself.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}

func unsupportedOp(op string, d dialect.Dialect) error {
	return unsupportedErr(fmt.Sprintf("%s is not supported on dialect %q", op, d.Name()))
}
