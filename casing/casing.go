// Package casing implements the client's identifier-casing transform: one
// function, Column, called from both schema construction (DDL-adjacent
// quoting) and filter-key resolution, so the two paths can never disagree
// about what a caller-facing column name maps to on the wire. This
// resolves the open question of where the Go-identifier-shape to
// SQL-identifier-shape transform lives: exactly here, nowhere else.
package casing

import "github.com/go-openapi/inflect"

// Style is the closed set of supported identifier casing conventions.
type Style string

// The two supported styles. Snake renders identifiers in snake_case, the
// typical SQL column-naming convention; Camel passes identifiers through
// unchanged, for schemas that already declare camelCase column names
// directly. Neither is applied by default: a client whose Config.Casing is
// empty applies no casing at all, which renders the same as Camel.
const (
	Snake Style = "snake"
	Camel Style = "camel"
)

// Column transforms name (as declared in a column.Builder constructor)
// into the identifier style s renders on the wire.
func Column(s Style, name string) string {
	switch s {
	case Snake:
		return inflect.Underscore(name)
	default:
		return name
	}
}
