package crud

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillorm/quill/querybuilder"
)

// aggregateExpr is one SELECT-list aggregate term: a SQL function applied
// to a column (or "*" for COUNT), aliased to a stable, predictable name.
type aggregateExpr struct {
	fn     string
	column string
	alias  string
}

func aggregateExprs(spec AggregateSpec) []aggregateExpr {
	var out []aggregateExpr
	add := func(fn string, cols []string) {
		for _, c := range cols {
			alias := fmt.Sprintf("_%s_%s", strings.ToLower(fn), c)
			if c == "*" {
				alias = "_count"
			}
			out = append(out, aggregateExpr{fn: fn, column: c, alias: alias})
		}
	}
	add("COUNT", spec.Count)
	add("SUM", spec.Sum)
	add("AVG", spec.Avg)
	add("MIN", spec.Min)
	add("MAX", spec.Max)
	return out
}

func (e *Engine) renderAggregateSelect(by []string, exprs []aggregateExpr) string {
	var parts []string
	for _, b := range by {
		parts = append(parts, e.Dialect.QuoteIdent(b))
	}
	for _, ex := range exprs {
		col := "*"
		if ex.column != "*" {
			col = e.Dialect.QuoteIdent(ex.column)
		}
		parts = append(parts, fmt.Sprintf("%s(%s) AS %s", ex.fn, col, e.Dialect.QuoteIdent(ex.alias)))
	}
	return strings.Join(parts, ", ")
}

// Aggregate computes a single-row aggregate over the rows matching where.
func (e *Engine) Aggregate(ctx context.Context, opts AggregateOptions) Result[map[string]any] {
	exprs := aggregateExprs(opts.Aggregate)
	if len(exprs) == 0 {
		return Err[map[string]any](validation("aggregate requires at least one of _count/_sum/_avg/_min/_max"))
	}

	var b strings.Builder
	var params []any
	b.WriteString("SELECT ")
	b.WriteString(e.renderAggregateSelect(nil, exprs))
	b.WriteString(" FROM ")
	b.WriteString(e.Dialect.QuoteIdent(e.table().Name))
	if w, err := querybuilder.CompileWhere(e.Dialect, e.table(), opts.Where, &params); err != nil {
		return Err[map[string]any](fromCompileError(e.table().Name, err))
	} else if w != "" {
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}

	res, qerr := e.runCompiled(ctx, querybuilder.Compiled{Text: b.String(), Params: params})
	if qerr != nil {
		return Err[map[string]any](qerr)
	}
	if len(res.Rows) == 0 {
		return Ok(map[string]any{})
	}
	return Ok(res.Rows[0])
}

// GroupBy computes one aggregate row per distinct combination of the `by`
// columns, matching rows filtered by where, ordered and paginated like a
// list call.
func (e *Engine) GroupBy(ctx context.Context, opts GroupByOptions) Result[[]map[string]any] {
	if len(opts.By) == 0 {
		return Err[[]map[string]any](validation("groupBy requires a non-empty by column list"))
	}
	exprs := aggregateExprs(opts.Aggregate)

	var b strings.Builder
	var params []any
	b.WriteString("SELECT ")
	b.WriteString(e.renderAggregateSelect(opts.By, exprs))
	b.WriteString(" FROM ")
	b.WriteString(e.Dialect.QuoteIdent(e.table().Name))
	if w, err := querybuilder.CompileWhere(e.Dialect, e.table(), opts.Where, &params); err != nil {
		return Err[[]map[string]any](fromCompileError(e.table().Name, err))
	} else if w != "" {
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}

	b.WriteString(" GROUP BY ")
	for i, col := range opts.By {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Dialect.QuoteIdent(col))
	}

	if len(opts.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, term := range opts.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.Dialect.QuoteIdent(term.Column))
			if term.Desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}
	if opts.Limit != nil {
		params = append(params, *opts.Limit)
		b.WriteString(" LIMIT ")
		b.WriteString(e.Dialect.Param(len(params)))
	}
	if opts.Offset != nil {
		params = append(params, *opts.Offset)
		b.WriteString(" OFFSET ")
		b.WriteString(e.Dialect.Param(len(params)))
	}

	res, qerr := e.runCompiled(ctx, querybuilder.Compiled{Text: b.String(), Params: params})
	if qerr != nil {
		return Err[[]map[string]any](qerr)
	}
	return Ok(res.Rows)
}
