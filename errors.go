package quill

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of error kinds the engine ever returns.
type Kind string

// The closed error taxonomy. Every caller-facing operation returns (or
// wraps) one of these kinds — no other kind is ever produced.
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

// Error is the single error type the engine returns. It carries the kind,
// the table the operation targeted (when known), optional offending
// column names, and the underlying cause.
type Error struct {
	Kind    Kind
	Table   string
	Columns []string
	Message string
	Cause   error

	// Code is the raw driver error code, preserved for diagnostics but not
	// part of the public contract (callers should branch on Kind, not Code).
	Code string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Table != "" {
		return fmt.Sprintf("quill: %s: %s (table=%s)", e.Kind, msg, e.Table)
	}
	return fmt.Sprintf("quill: %s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, quill.ErrNotFound) style sentinel matching.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// Sentinel errors for the common, frequently-checked kinds.
var (
	ErrNotFound = errors.New("quill: entity not found")
)

// NewError constructs a typed *Error.
func NewError(kind Kind, table, message string, cause error) *Error {
	return &Error{Kind: kind, Table: table, Message: message, Cause: cause}
}

// NotFound builds a NOT_FOUND error for the given table.
func NotFound(table string) *Error {
	return &Error{Kind: KindNotFound, Table: table, Message: "no matching row"}
}

// Validation builds a VALIDATION error — caller-side malformed input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unsupported builds an UNSUPPORTED_OPERATION error.
func Unsupported(message string) *Error {
	return &Error{Kind: KindUnsupportedOperation, Message: message}
}

// KindOf extracts the Kind from err, or KindUnknown if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is (or wraps) a NOT_FOUND error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUniqueViolation reports whether err is (or wraps) a UNIQUE_VIOLATION error.
func IsUniqueViolation(err error) bool { return KindOf(err) == KindUniqueViolation }

// IsForeignKeyViolation reports whether err is (or wraps) a FOREIGN_KEY_VIOLATION error.
func IsForeignKeyViolation(err error) bool { return KindOf(err) == KindForeignKeyViolation }

// IsCheckViolation reports whether err is (or wraps) a CHECK_VIOLATION error.
func IsCheckViolation(err error) bool { return KindOf(err) == KindCheckViolation }

// IsNotNullViolation reports whether err is (or wraps) a NOT_NULL_VIOLATION error.
func IsNotNullViolation(err error) bool { return KindOf(err) == KindNotNullViolation }

// IsValidation reports whether err is (or wraps) a VALIDATION error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsUnsupportedOperation reports whether err is (or wraps) an UNSUPPORTED_OPERATION error.
func IsUnsupportedOperation(err error) bool { return KindOf(err) == KindUnsupportedOperation }

// IsConnection reports whether err is (or wraps) a CONNECTION error.
func IsConnection(err error) bool { return KindOf(err) == KindConnection }
