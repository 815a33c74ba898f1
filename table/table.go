// Package table defines the Table and Index descriptors: an ordered set of
// columns plus secondary indexes, with column order as the single source
// of truth for SQL column order and default projection order.
package table

import "github.com/quillorm/quill/column"

// Index describes a secondary index over one or more columns.
type Index struct {
	Columns []string
	Unique  bool
}

// Fields declares a non-unique index over the given columns.
func Fields(cols ...string) Index { return Index{Columns: cols} }

// UniqueIndex declares a unique index over the given columns.
func UniqueIndex(cols ...string) Index { return Index{Columns: cols, Unique: true} }

// Table is {name, columns (ordered), indexes, shared}. Column order is
// authoritative: it defines both SQL column order and the default read
// projection order.
type Table struct {
	Name    string
	Columns []column.Def // insertion order preserved
	Indexes []Index
	Shared  bool
}

// Option configures a Table at construction time.
type Option func(*Table)

// WithIndexes attaches secondary indexes to the table.
func WithIndexes(idx ...Index) Option {
	return func(t *Table) { t.Indexes = append(t.Indexes, idx...) }
}

// WithShared marks the table as not participating in the tenant
// hierarchy (see registry's tenant graph).
func WithShared() Option {
	return func(t *Table) { t.Shared = true }
}

// New constructs a Table from an ordered column-builder list.
func New(name string, columns []column.Builder, opts ...Option) *Table {
	defs := make([]column.Def, len(columns))
	for i, c := range columns {
		defs[i] = c.Descriptor()
	}
	t := &Table{Name: name, Columns: defs}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Column returns the column descriptor named name, or false if absent.
func (t *Table) Column(name string) (column.Def, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return column.Def{}, false
}

// PrimaryKey returns the table's primary-key column, or false if none is
// declared.
func (t *Table) PrimaryKey() (column.Def, bool) {
	for _, c := range t.Columns {
		if c.Primary {
			return c, true
		}
	}
	return column.Def{}, false
}

// Tenant is shorthand for a uuid foreign-key column marked as the tenancy
// discriminator: uuid().references(targetTable.name, "id") + isTenant.
func Tenant(name string, target *Table) column.Builder {
	b := column.UUID(name).References(target.Name, "id")
	return column.MarkTenant(b)
}
