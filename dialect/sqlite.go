package dialect

import (
	"fmt"
	"strings"

	"github.com/quillorm/quill/column"
)

// sqliteDialect implements Dialect for SQLite: positional placeholders, no
// array or JSONB path operators, RETURNING supported on modern SQLite
// (3.35+, which modernc.org/sqlite ships). Booleans and timestamps are
// stored as integer/text and normalized by the value converter.
type sqliteDialect struct{}

// NewSQLite returns the SQLite Dialect.
func NewSQLite() Dialect { return sqliteDialect{} }

func (sqliteDialect) Name() string { return SQLite }

func (sqliteDialect) Param(int) string { return "?" }

func (sqliteDialect) Now() string { return "CURRENT_TIMESTAMP" }

func (sqliteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteDialect) SupportsReturning() bool { return true }
func (sqliteDialect) SupportsArrayOps() bool  { return false }
func (sqliteDialect) SupportsJSONBPath() bool { return false }
func (sqliteDialect) ILikeOperator() string   { return "LIKE" }
func (sqliteDialect) CollateNoCase() string   { return " COLLATE NOCASE" }

func (s sqliteDialect) MapColumnType(def column.Def) string {
	switch def.SQLType {
	case column.TypeUUID:
		return "text"
	case column.TypeText, column.TypeTextArray:
		return "text"
	case column.TypeVarchar:
		return fmt.Sprintf("varchar(%d)", def.Length)
	case column.TypeBoolean:
		return "integer"
	case column.TypeInteger, column.TypeIntegerArray:
		return "integer"
	case column.TypeBigInt:
		return "integer"
	case column.TypeDecimal:
		return "numeric"
	case column.TypeReal, column.TypeDoublePrecision:
		return "real"
	case column.TypeSerial:
		return "integer"
	case column.TypeTimestampTZ, column.TypeDate, column.TypeTime:
		return "text"
	case column.TypeJSONB:
		return "text"
	case column.TypeEnum:
		return "text"
	default:
		return "text"
	}
}

func (s sqliteDialect) UpsertConflict(conflictTargets []string, updateSet []string) string {
	var b strings.Builder
	b.WriteString("ON CONFLICT (")
	for i, c := range conflictTargets {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.QuoteIdent(c))
	}
	b.WriteString(") DO UPDATE SET ")
	for i, assign := range updateSet {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(assign)
	}
	return b.String()
}

func (s sqliteDialect) ExcludedRef(col string) string {
	return "excluded." + s.QuoteIdent(col)
}
