package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quillorm/quill/column"
)

// postgres implements Dialect for PostgreSQL: numbered placeholders, full
// feature set (RETURNING, array operators, JSONB path operators).
type postgres struct{}

// NewPostgres returns the Postgres Dialect.
func NewPostgres() Dialect { return postgres{} }

func (postgres) Name() string { return Postgres }

func (postgres) Param(index int) string { return "$" + strconv.Itoa(index) }

func (postgres) Now() string { return "NOW()" }

func (postgres) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (postgres) SupportsReturning() bool  { return true }
func (postgres) SupportsArrayOps() bool   { return true }
func (postgres) SupportsJSONBPath() bool  { return true }
func (postgres) ILikeOperator() string    { return "ILIKE" }
func (postgres) CollateNoCase() string    { return "" }

func (p postgres) MapColumnType(def column.Def) string {
	switch def.SQLType {
	case column.TypeUUID:
		return "uuid"
	case column.TypeText:
		return "text"
	case column.TypeVarchar:
		return fmt.Sprintf("varchar(%d)", def.Length)
	case column.TypeBoolean:
		return "boolean"
	case column.TypeInteger:
		return "integer"
	case column.TypeBigInt:
		return "bigint"
	case column.TypeDecimal:
		return fmt.Sprintf("decimal(%d,%d)", def.Precision, def.Scale)
	case column.TypeReal:
		return "real"
	case column.TypeDoublePrecision:
		return "double precision"
	case column.TypeSerial:
		return "serial"
	case column.TypeTimestampTZ:
		return "timestamp with time zone"
	case column.TypeDate:
		return "date"
	case column.TypeTime:
		return "time"
	case column.TypeJSONB:
		return "jsonb"
	case column.TypeTextArray:
		return "text[]"
	case column.TypeIntegerArray:
		return "integer[]"
	case column.TypeEnum:
		return def.EnumName
	default:
		return string(def.SQLType)
	}
}

func (p postgres) UpsertConflict(conflictTargets []string, updateSet []string) string {
	var b strings.Builder
	b.WriteString("ON CONFLICT (")
	for i, c := range conflictTargets {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.QuoteIdent(c))
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

func (p postgres) ExcludedRef(col string) string {
	return "excluded." + p.QuoteIdent(col)
}
