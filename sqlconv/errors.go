package sqlconv

import (
	"errors"
	"strings"
)

// errorCoder is implemented by pq.Error and modernc.org/sqlite's error
// type: a SQLSTATE-shaped or driver-specific string code.
type errorCoder interface {
	Code() string
}

// errorNumberer is implemented by go-sql-driver/mysql's *mysql.MySQLError.
type errorNumberer interface {
	Number() uint16
}

// sqlStateError is implemented by pq.Error.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL SQLSTATE codes, class 23 (integrity constraint violation).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// MySQL error numbers for the same constraint families.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451
	mysqlForeignKeyChild        = 1452
	mysqlCheckConstraintViolate = 3819
	mysqlColumnCannotBeNull     = 1048
)

// IsUniqueViolation reports whether err resulted from a uniqueness
// constraint violation, across all three dialects.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == pgUniqueViolation {
		return true
	}
	if e, ok := asError[errorCoder](err); ok && e.Code() == pgUniqueViolation {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok && e.Number() == mysqlDuplicateEntry {
		return true
	}
	return containsAny(err.Error(),
		"Error 1062",
		"violates unique constraint",
		"UNIQUE constraint failed",
	)
}

// IsForeignKeyViolation reports whether err resulted from a referential
// constraint violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == pgForeignKeyViolation {
		return true
	}
	if e, ok := asError[errorCoder](err); ok && e.Code() == pgForeignKeyViolation {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok {
		if n := e.Number(); n == mysqlForeignKeyParent || n == mysqlForeignKeyChild {
			return true
		}
	}
	return containsAny(err.Error(),
		"Error 1451",
		"Error 1452",
		"violates foreign key constraint",
		"FOREIGN KEY constraint failed",
	)
}

// IsCheckViolation reports whether err resulted from a check constraint
// violation.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == pgCheckViolation {
		return true
	}
	if e, ok := asError[errorCoder](err); ok && e.Code() == pgCheckViolation {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok && e.Number() == mysqlCheckConstraintViolate {
		return true
	}
	return containsAny(err.Error(),
		"Error 3819",
		"violates check constraint",
		"CHECK constraint failed",
	)
}

// IsNotNullViolation reports whether err resulted from writing NULL into a
// non-nullable column.
func IsNotNullViolation(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == pgNotNullViolation {
		return true
	}
	if e, ok := asError[errorCoder](err); ok && e.Code() == pgNotNullViolation {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok && e.Number() == mysqlColumnCannotBeNull {
		return true
	}
	return containsAny(err.Error(),
		"Error 1048",
		"violates not-null constraint",
		"NOT NULL constraint failed",
	)
}

// IsConnection reports whether err looks like a transport/connection
// failure rather than a statement-level error.
func IsConnection(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err.Error(),
		"connection refused",
		"driver: bad connection",
		"connection reset",
		"broken pipe",
		"too many connections",
	)
}

func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
