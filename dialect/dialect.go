// Package dialect captures the differences between SQL backends as a
// narrow capability interface rather than a class hierarchy: a value
// exposing placeholder format, the current-timestamp expression, column
// type mapping, and a handful of feature flags. Every SQL builder takes a
// Dialect as its first argument.
package dialect

import "github.com/quillorm/quill/column"

// Name identifiers for the supported dialects.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Dialect is the capability surface every builder and driver adapter is
// parameterized over.
type Dialect interface {
	// Name returns one of Postgres, MySQL, SQLite.
	Name() string

	// Param returns the placeholder token for the 1-based position index.
	// Idempotent and stateless ("$1", "?", ":1", ...).
	Param(index int) string

	// Now returns the SQL expression for "current timestamp".
	Now() string

	// MapColumnType maps a logical column type to this dialect's physical
	// DDL type string.
	MapColumnType(def column.Def) string

	// QuoteIdent returns the dialect-correct quoted identifier.
	QuoteIdent(name string) string

	// SupportsReturning reports whether RETURNING is available.
	SupportsReturning() bool

	// SupportsArrayOps reports whether array containment/overlap operators
	// are available.
	SupportsArrayOps() bool

	// SupportsJSONBPath reports whether JSON path operators are available.
	SupportsJSONBPath() bool

	// ILikeOperator returns the case-insensitive LIKE-family operator to
	// use for mode:"insensitive" string predicates ("ILIKE" on Postgres,
	// "LIKE" elsewhere — SQLite/MySQL combine this with CollateNoCase /
	// their default collation).
	ILikeOperator() string

	// CollateNoCase returns a trailing COLLATE clause fragment (possibly
	// empty) needed to make a plain LIKE case-insensitive on this dialect.
	CollateNoCase() string

	// UpsertConflict renders the ON CONFLICT / ON DUPLICATE KEY clause.
	// updateSet holds already-rendered assignments; new-row values inside
	// them come from ExcludedRef ("excluded" on Postgres/SQLite, VALUES(...)
	// on MySQL).
	UpsertConflict(conflictTargets []string, updateSet []string) string

	// ExcludedRef renders a reference to the to-be-inserted value of
	// column col, for use inside an upsert's update clause.
	ExcludedRef(col string) string
}

// Get returns the built-in Dialect for name, or nil if unknown.
func Get(name string) Dialect {
	switch name {
	case Postgres:
		return NewPostgres()
	case MySQL:
		return NewMySQL()
	case SQLite:
		return NewSQLite()
	default:
		return nil
	}
}
