package crud

import (
	"context"

	"github.com/quillorm/quill/querybuilder"
	"github.com/quillorm/quill/relation"
	"github.com/quillorm/quill/sqlconv"
)

// expandOne resolves a single requested relation against parents and
// returns, for each parent row in order, the value that relation should be
// attached under. spec is either `true` (default shape) or an
// *IncludeOptions scoping the secondary query. It never writes into
// parents itself: callers running several relations concurrently merge the
// returned per-row values back onto parents sequentially, since concurrent
// writes into the same row maps from different goroutines are unsafe.
func (e *Engine) expandOne(ctx context.Context, parents []map[string]any, def relation.Def, child *Engine, spec any, depth int) ([]any, error) {
	opts, _ := spec.(*IncludeOptions)

	switch def.Kind {
	case relation.KindOne:
		return e.expandToOne(ctx, parents, def, child, opts, depth)
	case relation.KindMany:
		return e.expandToMany(ctx, parents, def, child, opts, depth)
	case relation.KindManyThrough:
		return e.expandManyThrough(ctx, parents, def, child, opts, depth)
	default:
		return nil, validation("unknown relation kind " + string(def.Kind))
	}
}

// collectKeys extracts column from every row in order, including nil
// entries for rows where the column is absent or null.
func collectKeys(rows []map[string]any, column string) []any {
	keys := make([]any, len(rows))
	for i, r := range rows {
		keys[i] = r[column]
	}
	return keys
}

// distinctNonNil returns the distinct, non-nil values among keys.
func distinctNonNil(keys []any) []any {
	seen := make(map[any]bool, len(keys))
	var out []any
	for _, k := range keys {
		if k == nil || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func mergeWhere(base querybuilder.Where, extra querybuilder.Where) querybuilder.Where {
	if len(extra) == 0 {
		return base
	}
	out := make(querybuilder.Where, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func selectOptionsFrom(opts *IncludeOptions, pkFilter querybuilder.Where) querybuilder.SelectOptions {
	so := querybuilder.SelectOptions{Where: pkFilter}
	if opts != nil {
		so.Columns = opts.Select
		so.Where = mergeWhere(pkFilter, opts.Where)
		so.OrderBy = opts.OrderBy
	}
	return so
}

func nestedInclude(opts *IncludeOptions) Include {
	if opts == nil {
		return nil
	}
	return opts.Include
}

// expandToOne handles relation.KindOne: the foreign key lives on this
// (parent) table; the target's primary key is filtered with IN (...).
func (e *Engine) expandToOne(ctx context.Context, parents []map[string]any, def relation.Def, child *Engine, opts *IncludeOptions, depth int) ([]any, error) {
	keys := collectKeys(parents, def.ForeignKey)
	want := distinctNonNil(keys)

	targetPK := child.primaryKey()
	var rows []map[string]any
	if len(want) > 0 {
		so := selectOptionsFrom(opts, querybuilder.Where{targetPK.Name: querybuilder.Op{In: want}})
		compiled, err := querybuilder.CompileSelect(child.Dialect, child.table(), so)
		if err != nil {
			return nil, fromCompileError(child.table().Name, err)
		}
		res, qerr := child.runCompiled(ctx, compiled)
		if qerr != nil {
			return nil, qerr
		}
		rows = child.decodeRows(res.Rows)
		if nested := nestedInclude(opts); len(nested) > 0 {
			if err := child.expandIncludes(ctx, rows, nested, depth+1); err != nil {
				return nil, err
			}
		}
	}

	ordered := OrderByKeys(keys, rows, func(r map[string]any) any { return r[targetPK.Name] })
	values := make([]any, len(parents))
	for i := range parents {
		if ordered[i] != nil {
			values[i] = ordered[i]
		}
	}
	return values, nil
}

// expandToMany handles relation.KindMany: the foreign key lives on the
// target table, pointing back at this table's primary key.
func (e *Engine) expandToMany(ctx context.Context, parents []map[string]any, def relation.Def, child *Engine, opts *IncludeOptions, depth int) ([]any, error) {
	pk := e.primaryKey()
	keys := collectKeys(parents, pk.Name)
	want := distinctNonNil(keys)

	var rows []map[string]any
	if len(want) > 0 {
		so := selectOptionsFrom(opts, querybuilder.Where{def.ForeignKey: querybuilder.Op{In: want}})
		compiled, err := querybuilder.CompileSelect(child.Dialect, child.table(), so)
		if err != nil {
			return nil, fromCompileError(child.table().Name, err)
		}
		res, qerr := child.runCompiled(ctx, compiled)
		if qerr != nil {
			return nil, qerr
		}
		rows = child.decodeRows(res.Rows)
		if nested := nestedInclude(opts); len(nested) > 0 {
			if err := child.expandIncludes(ctx, rows, nested, depth+1); err != nil {
				return nil, err
			}
		}
	}

	groups := GroupByKey(rows, func(r map[string]any) any { return r[def.ForeignKey] })
	ordered := OrderGroupsByKeys(keys, groups)
	values := make([]any, len(parents))
	for i := range parents {
		values[i] = ordered[i]
	}
	return values, nil
}

// expandManyThrough handles relation.KindManyThrough: a join table maps
// this table's primary key (ThisKey) to the target's primary key
// (ThatKey). Two secondary queries are issued — the join rows, then the
// distinct target rows they reference — rather than one: querybuilder has
// no joined-SELECT builder, only single-table SelectOptions, so there is no
// way to render "join against the through-table" as one statement without
// one. This is the one relation kind whose secondary-query count doesn't
// equal 1; a many-through relation costs 2 queries regardless of how many
// parent rows are being expanded, which is still bounded and independent of
// parent-row count, the property the per-relation batching actually
// protects (avoiding one query per *row*, an N+1).
func (e *Engine) expandManyThrough(ctx context.Context, parents []map[string]any, def relation.Def, child *Engine, opts *IncludeOptions, depth int) ([]any, error) {
	pk := e.primaryKey()
	keys := collectKeys(parents, pk.Name)
	want := distinctNonNil(keys)
	if len(want) == 0 {
		values := make([]any, len(parents))
		for i := range parents {
			values[i] = []map[string]any{}
		}
		return values, nil
	}

	joinTbl := def.Join()
	joinSelect := querybuilder.SelectOptions{
		Columns: []string{def.ThisKey, def.ThatKey},
		Where:   querybuilder.Where{def.ThisKey: querybuilder.Op{In: want}},
	}
	joinCompiled, err := querybuilder.CompileSelect(e.Dialect, joinTbl, joinSelect)
	if err != nil {
		return nil, fromCompileError(joinTbl.Name, err)
	}
	joinRes, qerr := e.runCompiledFor(ctx, joinTbl.Name, joinCompiled)
	if qerr != nil {
		return nil, qerr
	}
	joinRows := make([]map[string]any, len(joinRes.Rows))
	for i, r := range joinRes.Rows {
		joinRows[i] = sqlconv.DecodeRow(e.Dialect, joinTbl.Columns, r)
	}

	thatKeys := distinctNonNil(collectKeys(joinRows, def.ThatKey))
	targetPK := child.primaryKey()

	var targetRows []map[string]any
	if len(thatKeys) > 0 {
		so := selectOptionsFrom(opts, querybuilder.Where{targetPK.Name: querybuilder.Op{In: thatKeys}})
		compiled, err := querybuilder.CompileSelect(child.Dialect, child.table(), so)
		if err != nil {
			return nil, fromCompileError(child.table().Name, err)
		}
		res, qerr := child.runCompiled(ctx, compiled)
		if qerr != nil {
			return nil, qerr
		}
		targetRows = child.decodeRows(res.Rows)
		if nested := nestedInclude(opts); len(nested) > 0 {
			if err := child.expandIncludes(ctx, targetRows, nested, depth+1); err != nil {
				return nil, err
			}
		}
	}

	targetByPK := make(map[any]map[string]any, len(targetRows))
	for _, r := range targetRows {
		targetByPK[r[targetPK.Name]] = r
	}

	thisKeyToThatKeys := make(map[any][]any)
	for _, jr := range joinRows {
		tk := jr[def.ThisKey]
		thisKeyToThatKeys[tk] = append(thisKeyToThatKeys[tk], jr[def.ThatKey])
	}

	values := make([]any, len(parents))
	for i := range parents {
		var related []map[string]any
		for _, thatKey := range thisKeyToThatKeys[keys[i]] {
			if row, ok := targetByPK[thatKey]; ok {
				related = append(related, row)
			}
		}
		if related == nil {
			related = []map[string]any{}
		}
		values[i] = related
	}
	return values, nil
}
