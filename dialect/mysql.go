package dialect

import (
	"fmt"
	"strings"

	"github.com/quillorm/quill/column"
)

// mysqlDialect implements Dialect for MySQL/MariaDB: positional
// placeholders, no RETURNING (conservatively treated as unsupported across
// the version range this package targets), no array operators, JSON path
// available via JSON_EXTRACT/->>- operators. This is an additive dialect
// beyond spec.md's two mandated backends — see SPEC_FULL.md §C.
type mysqlDialect struct{}

// NewMySQL returns the MySQL Dialect.
func NewMySQL() Dialect { return mysqlDialect{} }

func (mysqlDialect) Name() string { return MySQL }

func (mysqlDialect) Param(int) string { return "?" }

func (mysqlDialect) Now() string { return "NOW()" }

func (mysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlDialect) SupportsReturning() bool { return false }
func (mysqlDialect) SupportsArrayOps() bool  { return false }
func (mysqlDialect) SupportsJSONBPath() bool { return true }
func (mysqlDialect) ILikeOperator() string   { return "LIKE" }
func (mysqlDialect) CollateNoCase() string   { return "" }

func (m mysqlDialect) MapColumnType(def column.Def) string {
	switch def.SQLType {
	case column.TypeUUID:
		return "char(36)"
	case column.TypeText, column.TypeTextArray:
		return "text"
	case column.TypeVarchar:
		return fmt.Sprintf("varchar(%d)", def.Length)
	case column.TypeBoolean:
		return "tinyint(1)"
	case column.TypeInteger, column.TypeIntegerArray:
		return "int"
	case column.TypeBigInt:
		return "bigint"
	case column.TypeDecimal:
		return fmt.Sprintf("decimal(%d,%d)", def.Precision, def.Scale)
	case column.TypeReal:
		return "float"
	case column.TypeDoublePrecision:
		return "double"
	case column.TypeSerial:
		return "int auto_increment"
	case column.TypeTimestampTZ:
		return "timestamp"
	case column.TypeDate:
		return "date"
	case column.TypeTime:
		return "time"
	case column.TypeJSONB:
		return "json"
	case column.TypeEnum:
		return "enum(" + enumLiterals(def.EnumValues) + ")"
	default:
		return "text"
	}
}

func enumLiterals(values []string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("'" + strings.ReplaceAll(v, "'", "''") + "'")
	}
	return b.String()
}

// UpsertConflict renders MySQL's INSERT ... ON DUPLICATE KEY UPDATE clause.
// conflictTargets is accepted for interface symmetry but unused: MySQL
// determines the conflicting row from whichever unique/primary index the
// inserted row collides with, not from an explicit target list.
func (m mysqlDialect) UpsertConflict(_ []string, updateSet []string) string {
	var b strings.Builder
	b.WriteString("ON DUPLICATE KEY UPDATE ")
	for i, assign := range updateSet {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(assign)
	}
	return b.String()
}

func (m mysqlDialect) ExcludedRef(col string) string {
	return "VALUES(" + m.QuoteIdent(col) + ")"
}
