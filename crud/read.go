package crud

import (
	"context"

	"github.com/quillorm/quill/querybuilder"
)

// Get locates at most one row matching opts.Where, or an empty Result
// (no error) if none matches — GetOrThrow is the thin projection over
// this that turns a miss into a NOT_FOUND error.
func (e *Engine) Get(ctx context.Context, opts GetOptions) Result[map[string]any] {
	if len(opts.Where) == 0 {
		return Err[map[string]any](validation("get requires a where clause"))
	}

	// Includes attach request-scoped child rows onto the cached row shape,
	// so a cached entry from one include tree would leak into (or miss)
	// another's; only include-free gets are cached.
	cacheable := e.Cache != nil && len(opts.Include) == 0
	var key string
	if cacheable {
		key = cacheKey{Table: e.table().Name, Operation: "get", Where: opts.Where}.String()
		if row, ok := cacheLookup[map[string]any](ctx, e.Cache, key); ok {
			return Ok(row)
		}
	}

	so := querybuilder.SelectOptions{
		Columns:       opts.Select,
		NotVisibility: opts.NotVis,
		Where:         opts.Where,
		Limit:         intPtr(1),
	}
	compiled, err := querybuilder.CompileSelect(e.Dialect, e.table(), so)
	if err != nil {
		return Err[map[string]any](fromCompileError(e.table().Name, err))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[map[string]any](qerr)
	}
	if len(res.Rows) == 0 {
		return Ok[map[string]any](nil)
	}
	rows := e.decodeRows(res.Rows)
	if err := e.expandIncludes(ctx, rows, opts.Include, 0); err != nil {
		return Err[map[string]any](asError(err))
	}
	if cacheable {
		cacheStore(ctx, e.Cache, key, rows[0])
	}
	return Ok(rows[0])
}

// GetOrThrow is Get's exception-style projection: it raises NOT_FOUND
// instead of returning a nil row.
func (e *Engine) GetOrThrow(ctx context.Context, opts GetOptions) Result[map[string]any] {
	r := e.Get(ctx, opts)
	row, err := r.Get()
	if err != nil {
		return r
	}
	if row == nil {
		return Err[map[string]any](notFound(e.table().Name))
	}
	return Ok(row)
}

// List returns every row matching opts, in the requested order, with
// includes expanded.
func (e *Engine) List(ctx context.Context, opts ListOptions) Result[[]map[string]any] {
	cacheable := e.Cache != nil && len(opts.Include) == 0
	var key string
	if cacheable {
		key = cacheKey{
			Table: e.table().Name, Operation: "list",
			Where: opts.Where, OrderBy: opts.OrderBy, Limit: opts.Limit, Offset: opts.Offset,
		}.String()
		if rows, ok := cacheLookup[[]map[string]any](ctx, e.Cache, key); ok {
			return Ok(rows)
		}
	}

	so := querybuilder.SelectOptions{
		Columns:       opts.Select,
		NotVisibility: opts.NotVis,
		Where:         opts.Where,
		OrderBy:       opts.OrderBy,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	}
	compiled, err := querybuilder.CompileSelect(e.Dialect, e.table(), so)
	if err != nil {
		return Err[[]map[string]any](fromCompileError(e.table().Name, err))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[[]map[string]any](qerr)
	}
	rows := e.decodeRows(res.Rows)
	if err := e.expandIncludes(ctx, rows, opts.Include, 0); err != nil {
		return Err[[]map[string]any](asError(err))
	}
	if cacheable {
		cacheStore(ctx, e.Cache, key, rows)
	}
	return Ok(rows)
}

// ListResult is listAndCount's combined payload: the page of rows plus
// the total matching count (ignoring limit/offset).
type ListResult struct {
	Rows  []map[string]any
	Count int64
}

// ListAndCount runs List and Count sequentially against the same where
// clause. The two queries are not wrapped in an implicit transaction —
// callers needing snapshot consistency must wrap the pair themselves.
func (e *Engine) ListAndCount(ctx context.Context, opts ListOptions) Result[ListResult] {
	listRes := e.List(ctx, opts)
	rows, err := listRes.Get()
	if err != nil {
		return Err[ListResult](asError(err))
	}
	countRes := e.Count(ctx, CountOptions{Where: opts.Where})
	count, err := countRes.Get()
	if err != nil {
		return Err[ListResult](asError(err))
	}
	return Ok(ListResult{Rows: rows, Count: count})
}

// CountOptions parameterizes Count.
type CountOptions struct {
	Where querybuilder.Where
}

// Count returns the number of rows matching opts.Where.
func (e *Engine) Count(ctx context.Context, opts CountOptions) Result[int64] {
	compiled, err := querybuilder.CompileCount(e.Dialect, e.table(), opts.Where)
	if err != nil {
		return Err[int64](fromCompileError(e.table().Name, err))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[int64](qerr)
	}
	if len(res.Rows) == 0 {
		return Ok(int64(0))
	}
	for _, v := range res.Rows[0] {
		return Ok(toInt64(v))
	}
	return Ok(int64(0))
}

func intPtr(v int) *int { return &v }

// asError narrows an error already known to be (or wrap) a *Error back to
// the concrete type, for call sites threading an error through a
// different Result[T] type parameter.
func asError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Kind: KindUnknown, Message: err.Error(), Cause: err}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
