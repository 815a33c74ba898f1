package quill

import (
	"context"

	"github.com/quillorm/quill/crud"
)

// The per-operation option/result shapes are defined once in crud (which
// cannot import this package, see crud/errors.go) and aliased here so
// callers never need to import crud directly.
type (
	Include           = crud.Include
	IncludeOptions    = crud.IncludeOptions
	GetOptions        = crud.GetOptions
	ListOptions       = crud.ListOptions
	ListResult        = crud.ListResult
	CountOptions      = crud.CountOptions
	CreateOptions     = crud.CreateOptions
	CreateManyOptions = crud.CreateManyOptions
	UpdateOptions     = crud.UpdateOptions
	UpsertOptions     = crud.UpsertOptions
	DeleteOptions     = crud.DeleteOptions
	AggregateSpec     = crud.AggregateSpec
	AggregateOptions  = crud.AggregateOptions
	GroupByOptions    = crud.GroupByOptions
)

// ModelClient is the per-model delegate the client hands back from
// Model(name): every CRUD procedure for one registered table, each
// projecting the crud package's internal Result/Error pair into the
// public quill.Result/quill.Error pair.
type ModelClient struct {
	engine *crud.Engine
	name   string
}

// Name returns the model name this delegate was built for.
func (m *ModelClient) Name() string { return m.name }

func (m *ModelClient) Get(ctx context.Context, opts GetOptions) Result[map[string]any] {
	return wrap(m.engine.Get(ctx, opts))
}

func (m *ModelClient) GetOrThrow(ctx context.Context, opts GetOptions) Result[map[string]any] {
	return wrap(m.engine.GetOrThrow(ctx, opts))
}

func (m *ModelClient) List(ctx context.Context, opts ListOptions) Result[[]map[string]any] {
	return wrap(m.engine.List(ctx, opts))
}

func (m *ModelClient) ListAndCount(ctx context.Context, opts ListOptions) Result[ListResult] {
	return wrap(m.engine.ListAndCount(ctx, opts))
}

func (m *ModelClient) Count(ctx context.Context, opts CountOptions) Result[int64] {
	return wrap(m.engine.Count(ctx, opts))
}

func (m *ModelClient) Create(ctx context.Context, opts CreateOptions) Result[map[string]any] {
	return wrap(m.engine.Create(ctx, opts))
}

func (m *ModelClient) CreateMany(ctx context.Context, opts CreateManyOptions) Result[int64] {
	return wrap(m.engine.CreateMany(ctx, opts))
}

func (m *ModelClient) CreateManyAndReturn(ctx context.Context, opts CreateManyOptions) Result[[]map[string]any] {
	return wrap(m.engine.CreateManyAndReturn(ctx, opts))
}

func (m *ModelClient) Update(ctx context.Context, opts UpdateOptions) Result[map[string]any] {
	return wrap(m.engine.Update(ctx, opts))
}

func (m *ModelClient) UpdateMany(ctx context.Context, opts UpdateOptions) Result[int64] {
	return wrap(m.engine.UpdateMany(ctx, opts))
}

func (m *ModelClient) Upsert(ctx context.Context, opts UpsertOptions) Result[map[string]any] {
	return wrap(m.engine.Upsert(ctx, opts))
}

func (m *ModelClient) Delete(ctx context.Context, opts DeleteOptions) Result[map[string]any] {
	return wrap(m.engine.Delete(ctx, opts))
}

func (m *ModelClient) DeleteMany(ctx context.Context, opts DeleteOptions) Result[int64] {
	return wrap(m.engine.DeleteMany(ctx, opts))
}

func (m *ModelClient) Aggregate(ctx context.Context, opts AggregateOptions) Result[map[string]any] {
	return wrap(m.engine.Aggregate(ctx, opts))
}

func (m *ModelClient) GroupBy(ctx context.Context, opts GroupByOptions) Result[[]map[string]any] {
	return wrap(m.engine.GroupBy(ctx, opts))
}

// wrap projects a crud.Result into the public quill.Result, translating its
// *crud.Error into a *quill.Error. The two Kind taxonomies share identical
// string values by construction (see crud/errors.go), so the conversion is
// a plain relabeling, never a lossy guess.
func wrap[T any](r crud.Result[T]) Result[T] {
	v, err := r.Get()
	if err != nil {
		return Err[T](translateCrudError(err))
	}
	return Ok(v)
}

func translateCrudError(err error) *Error {
	ce, ok := err.(*crud.Error)
	if !ok {
		return NewError(KindUnknown, "", err.Error(), err)
	}
	return &Error{
		Kind:    Kind(ce.Kind),
		Table:   ce.Table,
		Columns: ce.Columns,
		Message: ce.Message,
		Cause:   ce.Cause,
	}
}
