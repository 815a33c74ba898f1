package crud

import "github.com/quillorm/quill/querybuilder"

// Include requests a relation to be loaded: true for the default shape, or
// a nested *IncludeOptions for a scoped secondary query.
type Include map[string]any

// IncludeOptions scopes a single relation's secondary query.
type IncludeOptions struct {
	Select  []string
	Where   querybuilder.Where
	OrderBy querybuilder.OrderBy
	Include Include
}

// GetOptions parameterizes get/getOrThrow.
type GetOptions struct {
	Where   querybuilder.Where
	Select  []string
	NotVis  string
	Include Include
}

// ListOptions parameterizes list/listAndCount.
type ListOptions struct {
	Where   querybuilder.Where
	Select  []string
	NotVis  string
	Include Include
	OrderBy querybuilder.OrderBy
	Limit   *int
	Offset  *int
}

// CreateOptions parameterizes create.
type CreateOptions struct {
	Data map[string]any
}

// CreateManyOptions parameterizes createMany/createManyAndReturn.
type CreateManyOptions struct {
	Data []map[string]any
}

// UpdateOptions parameterizes update/updateMany.
type UpdateOptions struct {
	Where querybuilder.Where
	Data  map[string]any
}

// UpsertOptions parameterizes upsert.
type UpsertOptions struct {
	Where  querybuilder.Where
	Create map[string]any
	Update map[string]any
}

// DeleteOptions parameterizes delete/deleteMany.
type DeleteOptions struct {
	Where querybuilder.Where
}

// AggregateSpec is the `{_count?, _sum?, _avg?, _min?, _max?}` bag, each
// naming the subset of numeric columns to aggregate.
type AggregateSpec struct {
	Count []string
	Sum   []string
	Avg   []string
	Min   []string
	Max   []string
}

// AggregateOptions parameterizes aggregate.
type AggregateOptions struct {
	Where     querybuilder.Where
	Aggregate AggregateSpec
}

// GroupByOptions parameterizes groupBy: the same core shape as list plus
// the group-by column list.
type GroupByOptions struct {
	Where     querybuilder.Where
	By        []string
	Aggregate AggregateSpec
	OrderBy   querybuilder.OrderBy
	Limit     *int
	Offset    *int
}
