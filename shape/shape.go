// Package shape derives read projections, insert inputs, update inputs,
// and validation shapes mechanically from column metadata — one source of
// truth (the column descriptors), several pure derived views.
//
// These are runtime facts rather than compile-time types: each derivation
// walks a []column.Def and returns a plain attribute list annotated with
// whether the attribute is required, matching the design note that a
// target lacking ent/Prisma-style compile-time derivation must compute the
// same shapes as data instead.
package shape

import "github.com/quillorm/quill/column"

// Attr is one column's projection into a derived shape.
type Attr struct {
	Column   column.Def
	Optional bool
}

// Names returns just the attribute names, in order.
func Names(attrs []Attr) []string {
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.Column.Name
	}
	return out
}

// Read is the default read projection: every column except those with
// visibility "hidden".
func Read(cols []column.Def) []Attr {
	return filter(cols, func(c column.Def) bool { return c.Visibility != column.VisibilityHidden })
}

// Full is every column, with no visibility filtering.
func Full(cols []column.Def) []Attr {
	return filter(cols, func(column.Def) bool { return true })
}

// NotSensitive is every column except those with visibility "sensitive" or
// "hidden".
func NotSensitive(cols []column.Def) []Attr {
	return filter(cols, func(c column.Def) bool {
		return c.Visibility != column.VisibilitySensitive && c.Visibility != column.VisibilityHidden
	})
}

// NotHidden is every column except visibility "hidden" — the explicit
// `select: {not: "hidden"}` opt-out, equivalent in result to Read.
func NotHidden(cols []column.Def) []Attr { return Read(cols) }

// Insert is every column; columns with HasDefault are optional, all
// others are required. Visibility does not affect writability.
func Insert(cols []column.Def) []Attr {
	attrs := make([]Attr, len(cols))
	for i, c := range cols {
		attrs[i] = Attr{Column: c, Optional: c.HasDefault}
	}
	return attrs
}

// Update is every column except primary-key and read-only columns; every
// remaining attribute is optional (a partial update payload).
func Update(cols []column.Def) []Attr {
	var attrs []Attr
	for _, c := range cols {
		if c.Primary || c.ReadOnly {
			continue
		}
		attrs = append(attrs, Attr{Column: c, Optional: true})
	}
	return attrs
}

// CreateInput is every column except primary-key and read-only columns;
// defaulted columns are optional, the rest required. Unlike Insert, the
// primary key and managed columns never appear — this is the shape a
// caller-facing "create" form should validate against.
func CreateInput(cols []column.Def) []Attr {
	var attrs []Attr
	for _, c := range cols {
		if c.Primary || c.ReadOnly {
			continue
		}
		attrs = append(attrs, Attr{Column: c, Optional: c.HasDefault})
	}
	return attrs
}

func filter(cols []column.Def, keep func(column.Def) bool) []Attr {
	var attrs []Attr
	for _, c := range cols {
		if keep(c) {
			attrs = append(attrs, Attr{Column: c})
		}
	}
	return attrs
}
