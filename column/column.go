// Package column provides immutable builders that produce column
// descriptors carrying type, visibility, default, and relation metadata.
//
// Descriptors are built once at program start and never mutated — every
// modifier returns a new Builder value (copy-on-write), mirroring the
// closed, chainable style of ent-family schema builders.
package column

// SQLType is the canonical logical type of a column, independent of any
// one dialect's physical DDL spelling.
type SQLType string

// The supported logical types.
const (
	TypeUUID            SQLType = "uuid"
	TypeText            SQLType = "text"
	TypeVarchar         SQLType = "varchar"
	TypeBoolean         SQLType = "boolean"
	TypeInteger         SQLType = "integer"
	TypeBigInt          SQLType = "bigint"
	TypeDecimal         SQLType = "decimal"
	TypeReal            SQLType = "real"
	TypeDoublePrecision SQLType = "double precision"
	TypeSerial          SQLType = "serial"
	TypeTimestampTZ     SQLType = "timestamp with time zone"
	TypeDate            SQLType = "date"
	TypeTime            SQLType = "time"
	TypeJSONB           SQLType = "jsonb"
	TypeTextArray       SQLType = "text[]"
	TypeIntegerArray    SQLType = "integer[]"
	TypeEnum            SQLType = "enum"
)

// Visibility is a read-side access tier governing default column
// projection. It is orthogonal to writability.
type Visibility string

// The three visibility tiers.
const (
	VisibilityNormal    Visibility = "normal"
	VisibilitySensitive Visibility = "sensitive"
	VisibilityHidden    Visibility = "hidden"
)

// GenerateStrategy is an ID-generation strategy for primary-key columns.
type GenerateStrategy string

// The three supported ID-generation strategies.
const (
	GenerateCUID   GenerateStrategy = "cuid"
	GenerateUUID   GenerateStrategy = "uuid"
	GenerateNanoID GenerateStrategy = "nanoid"
)

// Now is the sentinel DefaultValue meaning "the dialect's current-timestamp
// expression", rendered inline via dialect.Now() rather than as a bound
// parameter.
const Now = "now"

// Reference is a foreign-key target.
type Reference struct {
	Table  string
	Column string
}

// Def is the immutable column descriptor. Zero value is not meaningful;
// always obtained via a constructor + Descriptor().
type Def struct {
	Name       string
	SQLType    SQLType
	Nullable   bool
	Primary    bool
	Unique     bool
	HasDefault bool
	Default    any
	Generate   GenerateStrategy
	ReadOnly   bool
	AutoUpdate bool
	Visibility Visibility
	References *Reference
	IsTenant   bool

	// Type-specific sidebands.
	Length     int    // varchar
	Precision  int    // decimal
	Scale      int    // decimal
	Format     string // e.g. "email"
	EnumName   string
	EnumValues []string
	Check      string
	Validate   func(any) error // JSONB payload validator
}

// Builder is a chainable, immutable column descriptor builder. The set of
// modifiers is closed: Primary, Unique, Nullable, Default, Sensitive,
// Hidden, ReadOnly, AutoUpdate, Check, References.
type Builder struct{ def Def }

func newBuilder(name string, t SQLType) Builder {
	return Builder{def: Def{Name: name, SQLType: t, Visibility: VisibilityNormal}}
}

func (b Builder) clone() Builder {
	d := b.def
	if b.def.References != nil {
		ref := *b.def.References
		d.References = &ref
	}
	if b.def.EnumValues != nil {
		d.EnumValues = append([]string(nil), b.def.EnumValues...)
	}
	return Builder{def: d}
}

// Descriptor materializes the immutable Def this builder describes.
func (b Builder) Descriptor() Def { return b.def }

// PrimaryOption configures a Primary() call; currently only Generate.
type PrimaryOption func(*Def)

// GenerateWith selects an ID-generation strategy for this primary column.
// Only valid on string-like (text/varchar/uuid) columns — enforced at
// first use by the engine, per spec §4.4's runtime guard.
func GenerateWith(s GenerateStrategy) PrimaryOption {
	return func(d *Def) { d.Generate = s }
}

// Primary marks the column as (part of) the primary key. A primary column
// always has a default available (either a generation strategy or a
// database-managed serial/identity).
func (b Builder) Primary(opts ...PrimaryOption) Builder {
	nb := b.clone()
	nb.def.Primary = true
	nb.def.HasDefault = true
	for _, opt := range opts {
		opt(&nb.def)
	}
	return nb
}

// Unique adds a uniqueness constraint.
func (b Builder) Unique() Builder {
	nb := b.clone()
	nb.def.Unique = true
	return nb
}

// Nullable allows NULL values for this column.
func (b Builder) Nullable() Builder {
	nb := b.clone()
	nb.def.Nullable = true
	return nb
}

// Default sets a literal default value, or the column.Now sentinel for
// "current timestamp at write time".
func (b Builder) Default(v any) Builder {
	nb := b.clone()
	nb.def.HasDefault = true
	nb.def.Default = v
	return nb
}

// Sensitive marks the column as visibility-tier "sensitive": included in
// the default read projection but excludable via the not-sensitive shape.
func (b Builder) Sensitive() Builder {
	nb := b.clone()
	nb.def.Visibility = VisibilitySensitive
	return nb
}

// Hidden marks the column as visibility-tier "hidden": omitted from every
// default read projection, reachable only via an explicit select.
func (b Builder) Hidden() Builder {
	nb := b.clone()
	nb.def.Visibility = VisibilityHidden
	return nb
}

// ReadOnly marks the column as never written from caller-supplied data.
func (b Builder) ReadOnly() Builder {
	nb := b.clone()
	nb.def.ReadOnly = true
	nb.def.HasDefault = true
	return nb
}

// AutoUpdate marks the column to be set to the dialect's current timestamp
// on every update, regardless of caller data. Implies ReadOnly.
func (b Builder) AutoUpdate() Builder {
	nb := b.ReadOnly()
	nb.def.AutoUpdate = true
	return nb
}

// Check attaches a raw SQL check-constraint expression.
func (b Builder) Check(sqlExpr string) Builder {
	nb := b.clone()
	nb.def.Check = sqlExpr
	return nb
}

// References marks the column as a foreign key. column defaults to "id"
// when omitted.
func (b Builder) References(table string, column ...string) Builder {
	col := "id"
	if len(column) > 0 && column[0] != "" {
		col = column[0]
	}
	nb := b.clone()
	nb.def.References = &Reference{Table: table, Column: col}
	return nb
}

// tenant is set by table.Tenant(); not part of the public modifier set
// (it's a derived shorthand, see table.Tenant).
func (b Builder) tenant() Builder {
	nb := b.clone()
	nb.def.IsTenant = true
	return nb
}

// MarkTenant is used internally by the table package's Tenant() shorthand.
func MarkTenant(b Builder) Builder { return b.tenant() }

// --- Constructors, one per logical type. Type-specific sideband values are
// construction-time arguments, not chainable modifiers, keeping the
// modifier set itself closed. ---

// UUID declares a uuid column.
func UUID(name string) Builder { return newBuilder(name, TypeUUID) }

// Text declares an unbounded text column. format, if given, records a
// sideband hint (e.g. "email") consumed by validation layers, not by SQL.
func Text(name string, format ...string) Builder {
	b := newBuilder(name, TypeText)
	if len(format) > 0 {
		b.def.Format = format[0]
	}
	return b
}

// Varchar declares a bounded varchar(length) column.
func Varchar(name string, length int) Builder {
	b := newBuilder(name, TypeVarchar)
	b.def.Length = length
	return b
}

// Boolean declares a boolean column.
func Boolean(name string) Builder { return newBuilder(name, TypeBoolean) }

// Integer declares a 32-bit integer column.
func Integer(name string) Builder { return newBuilder(name, TypeInteger) }

// BigInt declares a 64-bit integer column.
func BigInt(name string) Builder { return newBuilder(name, TypeBigInt) }

// Decimal declares a fixed-point decimal(precision, scale) column.
func Decimal(name string, precision, scale int) Builder {
	b := newBuilder(name, TypeDecimal)
	b.def.Precision, b.def.Scale = precision, scale
	return b
}

// Real declares a single-precision floating point column.
func Real(name string) Builder { return newBuilder(name, TypeReal) }

// DoublePrecision declares a double-precision floating point column.
func DoublePrecision(name string) Builder { return newBuilder(name, TypeDoublePrecision) }

// Serial declares a database-managed auto-increment integer column. Serial
// columns always have a default (the sequence), so Serial implies a usable
// default even before Primary() is called.
func Serial(name string) Builder {
	b := newBuilder(name, TypeSerial)
	b.def.HasDefault = true
	return b
}

// TimestampTZ declares a timestamp-with-time-zone column.
func TimestampTZ(name string) Builder { return newBuilder(name, TypeTimestampTZ) }

// Date declares a date-only column.
func Date(name string) Builder { return newBuilder(name, TypeDate) }

// Time declares a time-of-day column.
func Time(name string) Builder { return newBuilder(name, TypeTime) }

// JSONB declares a JSONB column with an optional runtime payload validator.
func JSONB(name string, validate ...func(any) error) Builder {
	b := newBuilder(name, TypeJSONB)
	if len(validate) > 0 {
		b.def.Validate = validate[0]
	}
	return b
}

// TextArray declares a text[] column.
func TextArray(name string) Builder { return newBuilder(name, TypeTextArray) }

// IntegerArray declares an integer[] column.
func IntegerArray(name string) Builder { return newBuilder(name, TypeIntegerArray) }

// Enum declares an enum column with a dialect-level enum type name and its
// closed value set.
func Enum(name, enumName string, values ...string) Builder {
	b := newBuilder(name, TypeEnum)
	b.def.EnumName = enumName
	b.def.EnumValues = append([]string(nil), values...)
	return b
}
