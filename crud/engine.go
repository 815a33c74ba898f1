// Package crud implements the per-operation CRUD pipeline: validate, fill
// generated IDs / strip read-only columns, build SQL, encode params,
// execute, translate driver errors, decode rows, expand includes, project
// the effective select. Every operation returns a Result[T], never a bare
// error; getOrThrow/update/delete report a miss as a NOT_FOUND error
// inside that same Result, so there is one pipeline, not two.
//
// crud has no dependency on the root quill package (see errors.go and
// result.go) so that the root can import crud for its per-model delegate
// surface without an import cycle.
package crud

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quillorm/quill/column"
	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/idgen"
	"github.com/quillorm/quill/querybuilder"
	"github.com/quillorm/quill/relation"
	"github.com/quillorm/quill/sqlconv"
	"github.com/quillorm/quill/table"
)

// Cache mirrors the root quill.Cache interface by shape, not by import,
// for the same reason crud.Kind/crud.Error mirror the root taxonomy: an
// engine built before the client exists still needs something to call.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Model is everything the engine needs to know about one registered
// table: its descriptor and its named relations, resolved from the
// registry at client-construction time.
type Model struct {
	Table     *table.Table
	Relations map[string]relation.Relation
}

// Engine runs the CRUD pipeline for a single model against one dialect
// and QueryFn. The root client holds one Engine per registered model.
type Engine struct {
	Dialect dialect.Dialect
	Query   sqlconv.QueryFn
	Model   Model
	Cache   Cache
	Log     func(...any)

	// Resolve looks up the Engine and relation.Def for a named relation on
	// this model. It is wired by the root client after every model's
	// Engine has been constructed (relation targets are lazy thunks, so
	// the full set of engines must exist before any of them can resolve
	// each other — the same two-phase construction the registry itself
	// uses for Target/Join thunks).
	Resolve func(name string) (child *Engine, def relation.Def, ok bool)

	// maxBatchInsert caps createMany/createManyAndReturn row counts per
	// statement; zero uses querybuilder.MaxBatchInsert.
	maxBatchInsert int
}

// New constructs an Engine. log may be nil (defaults to a no-op).
func New(d dialect.Dialect, q sqlconv.QueryFn, m Model, cache Cache, log func(...any)) *Engine {
	if log == nil {
		log = func(...any) {}
	}
	return &Engine{Dialect: d, Query: q, Model: m, Cache: cache, Log: log}
}

func (e *Engine) table() *table.Table { return e.Model.Table }

func (e *Engine) batchCap() int {
	if e.maxBatchInsert > 0 {
		return e.maxBatchInsert
	}
	return querybuilder.MaxBatchInsert
}

// primaryKey returns the model's primary-key column, panicking if none is
// declared. registry.New does not check for a primary key, so an
// operation that needs one on a table without one reaches this panic.
func (e *Engine) primaryKey() column.Def {
	pk, ok := e.table().PrimaryKey()
	if !ok {
		panic("crud: table " + e.table().Name + " has no primary key")
	}
	return pk
}

// fillGeneratedIDs mutates row in place, generating a value for the
// primary key when it carries a Generate strategy and the caller did not
// supply the column at all. An explicit null is left untouched: it is not
// "missing", it will fail at the database per §4.4.
func (e *Engine) fillGeneratedIDs(row map[string]any) *Error {
	pk := e.primaryKey()
	if pk.Generate == "" {
		return nil
	}
	if _, present := row[pk.Name]; present {
		return nil
	}
	id, err := idgen.Generate(pk.Generate, pk.SQLType)
	if err != nil {
		if ute, ok := err.(*idgen.UnsupportedTypeError); ok {
			return unsupported(ute.Error())
		}
		return &Error{Kind: KindUnknown, Table: e.table().Name, Message: err.Error(), Cause: err}
	}
	row[pk.Name] = id
	return nil
}

// columnNames returns every column name of tbl's table in declaration
// order — used as the RETURNING list for mutations, which always return
// the full row regardless of the caller's select (select only governs
// read operations).
func (e *Engine) columnNames() []string {
	names := make([]string, len(e.table().Columns))
	for i, c := range e.table().Columns {
		names[i] = c.Name
	}
	return names
}

// stripReadOnly removes every read-only column from a caller-supplied
// payload (insert or update); read-only columns are never caller-writable,
// regardless of whether the caller attempted to set one.
func (e *Engine) stripReadOnly(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if c, ok := e.table().Column(k); ok && c.ReadOnly {
			continue
		}
		out[k] = v
	}
	return out
}

// applyInsertDefaults fills column.Now for any defaulted-to-now column
// absent from the row, using the querybuilder.Now sentinel so the SQL
// builder renders it inline via dialect.Now() rather than as a parameter.
func (e *Engine) applyInsertDefaults(row map[string]any) {
	for _, c := range e.table().Columns {
		if _, present := row[c.Name]; present {
			continue
		}
		if c.HasDefault && c.Default == column.Now {
			row[c.Name] = querybuilder.Now
		}
	}
}

// autoUpdateColumns lists the table's AutoUpdate column names, in
// declaration order.
func (e *Engine) autoUpdateColumns() []string {
	var out []string
	for _, c := range e.table().Columns {
		if c.AutoUpdate {
			out = append(out, c.Name)
		}
	}
	return out
}

// encodeRow converts a single row of bound values for this table's
// columns via the dialect's value converter (identity outside SQLite).
func (e *Engine) encodeRow(row map[string]any) map[string]any {
	cols := make([]column.Def, 0, len(row))
	names := make([]string, 0, len(row))
	for k := range row {
		names = append(names, k)
	}
	sort.Strings(names)
	vals := make([]any, len(names))
	for i, n := range names {
		c, _ := e.table().Column(n)
		cols = append(cols, c)
		vals[i] = row[n]
	}
	encoded := sqlconv.EncodeParams(e.Dialect, cols, vals)
	out := make(map[string]any, len(row))
	for i, n := range names {
		out[n] = encoded[i]
	}
	return out
}

func (e *Engine) decodeRow(row map[string]any) map[string]any {
	return sqlconv.DecodeRow(e.Dialect, e.table().Columns, row)
}

func (e *Engine) decodeRows(rows []map[string]any) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = e.decodeRow(r)
	}
	return out
}

// runCompiled executes a compiled statement and translates driver errors
// into the closed taxonomy.
func (e *Engine) runCompiled(ctx context.Context, c querybuilder.Compiled) (sqlconv.Result, *Error) {
	return e.runCompiledFor(ctx, e.table().Name, c)
}

func (e *Engine) runCompiledFor(ctx context.Context, tableName string, c querybuilder.Compiled) (sqlconv.Result, *Error) {
	res, err := e.Query(ctx, c.Text, c.Params)
	if err != nil {
		return sqlconv.Result{}, translateDriverError(tableName, err)
	}
	return res, nil
}

// includeDepthCap bounds recursive include resolution per §4.3; deeper
// requests are silently ignored rather than rejected, collapsing to the
// unconstrained shape at the cap.
const includeDepthCap = 3

// expandIncludes resolves each requested relation against parent rows,
// running every requested relation concurrently via errgroup. Each
// goroutine computes its relation's per-row values into its own slice
// rather than writing onto parents directly — parents is one shared slice
// of maps, and concurrent writes into the same map from different
// relations' goroutines (even to distinct keys) are a data race that
// panics at runtime. Once every relation has finished, the results are
// merged onto parents sequentially. depth is the current recursion depth
// (0 at the top of an operation's include tree).
func (e *Engine) expandIncludes(ctx context.Context, parents []map[string]any, include Include, depth int) error {
	if len(parents) == 0 || len(include) == 0 {
		return nil
	}
	if depth >= includeDepthCap {
		return nil
	}
	if e.Resolve == nil {
		return validation("model has no relations registered")
	}

	type relationResult struct {
		name   string
		values []any
	}
	results := make([]relationResult, len(include))

	g, gctx := errgroup.WithContext(ctx)
	i := 0
	for name, spec := range include {
		slot := i
		i++
		name, spec := name, spec
		results[slot].name = name
		g.Go(func() error {
			child, def, ok := e.Resolve(name)
			if !ok {
				return validation("unknown relation " + name)
			}
			values, err := e.expandOne(gctx, parents, def, child, spec, depth)
			if err != nil {
				return err
			}
			results[slot].values = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		for i, parent := range parents {
			parent[r.name] = r.values[i]
		}
	}
	return nil
}
