package shape

import "github.com/quillorm/quill/column"

// Mixin is a reusable, named bundle of columns that multiple tables can
// splice into their own column list — e.g. a Timestamps mixin contributing
// created_at/updated_at. This mirrors the teacher's schema/mixin package
// (Time, SoftDelete, TimeSoftDelete) but as plain data rather than an
// embeddable struct, consistent with quill's runtime-schema design.
type Mixin struct {
	Name    string
	Columns []column.Builder
}

// New constructs a named mixin from a column list.
func New(name string, columns ...column.Builder) Mixin {
	return Mixin{Name: name, Columns: columns}
}

// Splice concatenates a table's own columns with one or more mixins' columns,
// mixins first: the mixins' columns in the order the mixins are given, then
// the table's own columns in their given order.
func Splice(base []column.Builder, mixins ...Mixin) []column.Builder {
	var out []column.Builder
	for _, m := range mixins {
		out = append(out, m.Columns...)
	}
	out = append(out, base...)
	return out
}

// Timestamps is a ready-to-use mixin adding created_at (immutable,
// defaulted to column.Now) and updated_at (auto-updated to column.Now on
// every update), grounded on the teacher's mixin.Time.
var Timestamps = New("timestamps",
	column.TimestampTZ("created_at").Default(column.Now).ReadOnly(),
	column.TimestampTZ("updated_at").Default(column.Now).AutoUpdate(),
)

// SoftDelete is a ready-to-use mixin adding a nullable deleted_at column.
var SoftDelete = New("soft_delete",
	column.TimestampTZ("deleted_at").Nullable(),
)
