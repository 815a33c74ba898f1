package crud

import (
	"context"
	"sort"

	"github.com/quillorm/quill/querybuilder"
)

// prepareInsertRow strips read-only columns, fills a generated primary
// key when applicable, and applies now-defaults to a caller-supplied
// create payload, returning the dialect-encoded row ready for the SQL
// builder.
func (e *Engine) prepareInsertRow(data map[string]any) (map[string]any, *Error) {
	row := e.stripReadOnly(data)
	if err := e.fillGeneratedIDs(row); err != nil {
		return nil, err
	}
	e.applyInsertDefaults(row)
	return e.encodeRow(row), nil
}

// postSelectByPK fetches the full row for pkValue — the fallback path
// for dialects without RETURNING support.
func (e *Engine) postSelectByPK(ctx context.Context, pkValue any) (map[string]any, *Error) {
	pk := e.primaryKey()
	compiled, err := querybuilder.CompileSelect(e.Dialect, e.table(), querybuilder.SelectOptions{
		Columns: e.columnNames(),
		Where:   querybuilder.Where{pk.Name: pkValue},
		Limit:   intPtr(1),
	})
	if err != nil {
		return nil, fromCompileError(e.table().Name, err)
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return nil, qerr
	}
	if len(res.Rows) == 0 {
		return nil, notFound(e.table().Name)
	}
	return e.decodeRow(res.Rows[0]), nil
}

// Create inserts a single row and returns it in full (§4.2.3).
func (e *Engine) Create(ctx context.Context, opts CreateOptions) Result[map[string]any] {
	if len(opts.Data) == 0 {
		return Err[map[string]any](validation("create requires a non-empty data payload"))
	}
	row, err := e.prepareInsertRow(opts.Data)
	if err != nil {
		return Err[map[string]any](err)
	}

	insertOpts := querybuilder.InsertOptions{Rows: []map[string]any{row}}
	if e.Dialect.SupportsReturning() {
		insertOpts.Returning = e.columnNames()
	}
	compiled, cerr := querybuilder.CompileInsert(e.Dialect, e.table(), insertOpts)
	if cerr != nil {
		return Err[map[string]any](fromCompileError(e.table().Name, cerr))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[map[string]any](qerr)
	}

	e.invalidateCache(ctx)
	if e.Dialect.SupportsReturning() {
		if len(res.Rows) == 0 {
			return Err[map[string]any](notFound(e.table().Name))
		}
		return Ok(e.decodeRow(res.Rows[0]))
	}
	pk := e.primaryKey()
	full, err := e.postSelectByPK(ctx, row[pk.Name])
	if err != nil {
		return Err[map[string]any](err)
	}
	return Ok(full)
}

// CreateMany inserts multiple rows, splitting into batches of at most
// e.batchCap() rows per statement, and returns only the affected count.
func (e *Engine) CreateMany(ctx context.Context, opts CreateManyOptions) Result[int64] {
	if len(opts.Data) == 0 {
		return Err[int64](validation("createMany requires at least one row"))
	}
	var total int64
	for _, batch := range e.batches(opts.Data) {
		rows := make([]map[string]any, len(batch))
		for i, d := range batch {
			row, err := e.prepareInsertRow(d)
			if err != nil {
				return Err[int64](err)
			}
			rows[i] = row
		}
		compiled, cerr := querybuilder.CompileInsert(e.Dialect, e.table(), querybuilder.InsertOptions{Rows: rows})
		if cerr != nil {
			return Err[int64](fromCompileError(e.table().Name, cerr))
		}
		res, qerr := e.runCompiled(ctx, compiled)
		if qerr != nil {
			return Err[int64](qerr)
		}
		total += int64(len(rows))
		_ = res
	}
	e.invalidateCache(ctx)
	return Ok(total)
}

// CreateManyAndReturn is CreateMany, but returns every inserted row in
// full (via RETURNING where the dialect supports it; otherwise via a
// post-select by primary key per row).
func (e *Engine) CreateManyAndReturn(ctx context.Context, opts CreateManyOptions) Result[[]map[string]any] {
	if len(opts.Data) == 0 {
		return Err[[]map[string]any](validation("createManyAndReturn requires at least one row"))
	}
	var out []map[string]any
	for _, batch := range e.batches(opts.Data) {
		rows := make([]map[string]any, len(batch))
		for i, d := range batch {
			row, err := e.prepareInsertRow(d)
			if err != nil {
				return Err[[]map[string]any](err)
			}
			rows[i] = row
		}
		insertOpts := querybuilder.InsertOptions{Rows: rows}
		if e.Dialect.SupportsReturning() {
			insertOpts.Returning = e.columnNames()
		}
		compiled, cerr := querybuilder.CompileInsert(e.Dialect, e.table(), insertOpts)
		if cerr != nil {
			return Err[[]map[string]any](fromCompileError(e.table().Name, cerr))
		}
		res, qerr := e.runCompiled(ctx, compiled)
		if qerr != nil {
			return Err[[]map[string]any](qerr)
		}
		if e.Dialect.SupportsReturning() {
			out = append(out, e.decodeRows(res.Rows)...)
			continue
		}
		pk := e.primaryKey()
		for _, row := range rows {
			full, err := e.postSelectByPK(ctx, row[pk.Name])
			if err != nil {
				return Err[[]map[string]any](err)
			}
			out = append(out, full)
		}
	}
	e.invalidateCache(ctx)
	return Ok(out)
}

func (e *Engine) batches(rows []map[string]any) [][]map[string]any {
	size := e.batchCap()
	var out [][]map[string]any
	for i := 0; i < len(rows); i += size {
		end := i + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[i:end])
	}
	return out
}

// Update mutates at most one row matching opts.Where and returns it in
// full; zero matching rows is a NOT_FOUND error (§4.2.5).
func (e *Engine) Update(ctx context.Context, opts UpdateOptions) Result[map[string]any] {
	if len(opts.Where) == 0 {
		return Err[map[string]any](validation("update requires a where clause"))
	}
	if len(opts.Data) == 0 {
		return Err[map[string]any](validation("update requires a non-empty data payload"))
	}
	data := e.encodeRow(e.stripReadOnly(opts.Data))
	auto := e.autoUpdateColumns()

	updateOpts := querybuilder.UpdateOptions{Data: data, AutoUpdateColumns: auto, Where: opts.Where}
	if e.Dialect.SupportsReturning() {
		updateOpts.Returning = e.columnNames()
	}
	compiled, cerr := querybuilder.CompileUpdate(e.Dialect, e.table(), updateOpts)
	if cerr != nil {
		return Err[map[string]any](fromCompileError(e.table().Name, cerr))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[map[string]any](qerr)
	}

	e.invalidateCache(ctx)
	if e.Dialect.SupportsReturning() {
		if len(res.Rows) == 0 {
			return Err[map[string]any](notFound(e.table().Name))
		}
		return Ok(e.decodeRow(res.Rows[0]))
	}
	if res.RowCount == 0 {
		return Err[map[string]any](notFound(e.table().Name))
	}
	// No RETURNING: re-select the single matching row by the same where.
	// invalidateCache has already run, so this reads through to the driver
	// rather than serving the pre-update cached row.
	selected := e.Get(ctx, GetOptions{Where: opts.Where})
	row, err := selected.Get()
	if err != nil {
		return Err[map[string]any](asError(err))
	}
	return Ok(row)
}

// UpdateMany mutates every row matching opts.Where and returns the
// affected count; never raises on zero matches.
func (e *Engine) UpdateMany(ctx context.Context, opts UpdateOptions) Result[int64] {
	if len(opts.Data) == 0 {
		return Err[int64](validation("updateMany requires a non-empty data payload"))
	}
	data := e.encodeRow(e.stripReadOnly(opts.Data))
	compiled, cerr := querybuilder.CompileUpdate(e.Dialect, e.table(), querybuilder.UpdateOptions{
		Data: data, AutoUpdateColumns: e.autoUpdateColumns(), Where: opts.Where,
	})
	if cerr != nil {
		return Err[int64](fromCompileError(e.table().Name, cerr))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[int64](qerr)
	}
	e.invalidateCache(ctx)
	return Ok(res.RowCount)
}

// Upsert inserts a row, or updates it in place if it collides with an
// existing unique/primary value named by opts.Where (§4.2.6).
func (e *Engine) Upsert(ctx context.Context, opts UpsertOptions) Result[map[string]any] {
	if len(opts.Where) == 0 {
		return Err[map[string]any](validation("upsert requires a where clause naming the conflict target"))
	}
	if len(opts.Create) == 0 {
		return Err[map[string]any](validation("upsert requires a create payload"))
	}
	if len(opts.Update) == 0 {
		return Err[map[string]any](validation("upsert requires an update payload"))
	}

	conflictTargets := make([]string, 0, len(opts.Where))
	for col := range opts.Where {
		conflictTargets = append(conflictTargets, col)
	}
	sort.Strings(conflictTargets)

	row := e.stripReadOnly(opts.Create)
	for col, val := range opts.Where {
		row[col] = val
	}
	if err := e.fillGeneratedIDs(row); err != nil {
		return Err[map[string]any](err)
	}
	e.applyInsertDefaults(row)
	row = e.encodeRow(row)

	updateCols := e.stripReadOnly(opts.Update)
	updateColNames := make([]string, 0, len(updateCols))
	for col := range updateCols {
		updateColNames = append(updateColNames, col)
	}
	sort.Strings(updateColNames)

	upsertOpts := querybuilder.UpsertOptions{
		Row:               row,
		ConflictTargets:   conflictTargets,
		UpdateColumns:     updateColNames,
		AutoUpdateColumns: e.autoUpdateColumns(),
	}
	if e.Dialect.SupportsReturning() {
		upsertOpts.Returning = e.columnNames()
	}
	compiled, cerr := querybuilder.CompileUpsert(e.Dialect, e.table(), upsertOpts)
	if cerr != nil {
		return Err[map[string]any](fromCompileError(e.table().Name, cerr))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[map[string]any](qerr)
	}
	e.invalidateCache(ctx)
	if e.Dialect.SupportsReturning() {
		if len(res.Rows) == 0 {
			return Err[map[string]any](notFound(e.table().Name))
		}
		return Ok(e.decodeRow(res.Rows[0]))
	}
	selected := e.Get(ctx, GetOptions{Where: opts.Where})
	r, err := selected.Get()
	if err != nil {
		return Err[map[string]any](asError(err))
	}
	return Ok(r)
}

// Delete removes at most one row matching opts.Where and returns the
// deleted row; zero matching rows is a NOT_FOUND error (§4.2.7).
func (e *Engine) Delete(ctx context.Context, opts DeleteOptions) Result[map[string]any] {
	if len(opts.Where) == 0 {
		return Err[map[string]any](validation("delete requires a where clause"))
	}

	deleteOpts := querybuilder.DeleteOptions{Where: opts.Where}
	if e.Dialect.SupportsReturning() {
		deleteOpts.Returning = e.columnNames()
	}

	var before map[string]any
	if !e.Dialect.SupportsReturning() {
		r := e.Get(ctx, GetOptions{Where: opts.Where})
		row, err := r.Get()
		if err != nil {
			return Err[map[string]any](asError(err))
		}
		if row == nil {
			return Err[map[string]any](notFound(e.table().Name))
		}
		before = row
	}

	compiled, cerr := querybuilder.CompileDelete(e.Dialect, e.table(), deleteOpts)
	if cerr != nil {
		return Err[map[string]any](fromCompileError(e.table().Name, cerr))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[map[string]any](qerr)
	}

	e.invalidateCache(ctx)
	if e.Dialect.SupportsReturning() {
		if len(res.Rows) == 0 {
			return Err[map[string]any](notFound(e.table().Name))
		}
		return Ok(e.decodeRow(res.Rows[0]))
	}
	return Ok(before)
}

// DeleteMany removes every row matching opts.Where and returns the
// affected count; never raises on zero matches.
func (e *Engine) DeleteMany(ctx context.Context, opts DeleteOptions) Result[int64] {
	compiled, cerr := querybuilder.CompileDelete(e.Dialect, e.table(), querybuilder.DeleteOptions{Where: opts.Where})
	if cerr != nil {
		return Err[int64](fromCompileError(e.table().Name, cerr))
	}
	res, qerr := e.runCompiled(ctx, compiled)
	if qerr != nil {
		return Err[int64](qerr)
	}
	e.invalidateCache(ctx)
	return Ok(res.RowCount)
}
