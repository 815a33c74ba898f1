package crud

import (
	"fmt"

	"github.com/quillorm/quill/querybuilder"
	"github.com/quillorm/quill/sqlconv"
)

// Kind mirrors the root package's closed error taxonomy (spec §7) by
// value, not by import: crud has no dependency on the root quill package
// so it can be imported by it without a cycle (the same device as
// querybuilder.CompileError). The root client translates Kind into
// quill.Kind when wrapping a crud.Result into a quill.Result — the string
// values are identical by construction, so the translation is a no-op
// type conversion.
type Kind string

// The closed error taxonomy, see spec §7.
const (
	KindNotFound             Kind = "NOT_FOUND"
	KindUniqueViolation      Kind = "UNIQUE_VIOLATION"
	KindForeignKeyViolation  Kind = "FOREIGN_KEY_VIOLATION"
	KindCheckViolation       Kind = "CHECK_VIOLATION"
	KindNotNullViolation     Kind = "NOT_NULL_VIOLATION"
	KindValidation           Kind = "VALIDATION"
	KindUnsupportedOperation Kind = "UNSUPPORTED_OPERATION"
	KindConnection           Kind = "CONNECTION"
	KindUnknown              Kind = "UNKNOWN"
)

// Error is the crud engine's error value; Result[T] always carries one of
// these (never a bare error) on failure.
type Error struct {
	Kind    Kind
	Table   string
	Columns []string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("crud: %s: %s (table=%s)", e.Kind, e.Message, e.Table)
	}
	return fmt.Sprintf("crud: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func notFound(table string) *Error {
	return &Error{Kind: KindNotFound, Table: table, Message: "no matching row"}
}

func validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func unsupported(msg string) *Error {
	return &Error{Kind: KindUnsupportedOperation, Message: msg}
}

// fromCompileError converts a querybuilder.CompileError into an *Error —
// VALIDATION if it's a plain malformed-options failure, UNSUPPORTED_
// OPERATION if the builder hit a dialect feature guard.
func fromCompileError(table string, err error) *Error {
	var ce *querybuilder.CompileError
	if e, ok := err.(*querybuilder.CompileError); ok {
		ce = e
	}
	kind := KindValidation
	if ce != nil && ce.Unsupported {
		kind = KindUnsupportedOperation
	}
	return &Error{Kind: kind, Table: table, Message: err.Error(), Cause: err}
}

// translateDriverError maps a raw driver error into the closed taxonomy
// using sqlconv's constraint-detection helpers.
func translateDriverError(table string, err error) *Error {
	switch {
	case sqlconv.IsUniqueViolation(err):
		return &Error{Kind: KindUniqueViolation, Table: table, Message: "unique constraint violated", Cause: err}
	case sqlconv.IsForeignKeyViolation(err):
		return &Error{Kind: KindForeignKeyViolation, Table: table, Message: "foreign key constraint violated", Cause: err}
	case sqlconv.IsCheckViolation(err):
		return &Error{Kind: KindCheckViolation, Table: table, Message: "check constraint violated", Cause: err}
	case sqlconv.IsNotNullViolation(err):
		return &Error{Kind: KindNotNullViolation, Table: table, Message: "not-null constraint violated", Cause: err}
	case sqlconv.IsConnection(err):
		return &Error{Kind: KindConnection, Table: table, Message: "connection failure", Cause: err}
	default:
		return &Error{Kind: KindUnknown, Table: table, Message: err.Error(), Cause: err}
	}
}
