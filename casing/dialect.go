package casing

import (
	"strings"

	"github.com/quillorm/quill/dialect"
)

// casedDialect decorates a Dialect, rewriting every identifier through
// Column(style, name) before it reaches the inner dialect's quoting. Every
// other capability (placeholder format, type mapping, feature flags)
// passes straight through unchanged.
type casedDialect struct {
	dialect.Dialect
	style Style
}

// Wrap decorates d so every column/table identifier it quotes is first
// passed through Column(style, name). Style Camel is a no-op wrap (every
// method behaves exactly like d), kept so callers can always wrap
// unconditionally rather than branching on whether casing was configured.
func Wrap(d dialect.Dialect, style Style) dialect.Dialect {
	return casedDialect{Dialect: d, style: style}
}

func (c casedDialect) QuoteIdent(name string) string {
	return c.Dialect.QuoteIdent(Column(c.style, name))
}

// UpsertConflict and ExcludedRef both quote identifiers internally on the
// wrapped dialect's own QuoteIdent, not through this wrapper's override —
// Go's embedding dispatches to the concrete receiver's method body, not
// back through the wrapping interface. Both are reimplemented here against
// c.QuoteIdent so a configured casing style also reaches ON CONFLICT /
// excluded-value references.
func (c casedDialect) UpsertConflict(conflictTargets []string, updateSet []string) string {
	var b strings.Builder
	switch c.Dialect.Name() {
	case dialect.MySQL:
		b.WriteString("ON DUPLICATE KEY UPDATE ")
		for i, assign := range updateSet {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(assign)
		}
		return b.String()
	default:
		b.WriteString("ON CONFLICT (")
		for i, col := range conflictTargets {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.QuoteIdent(col))
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
}

func (c casedDialect) ExcludedRef(col string) string {
	if c.Dialect.Name() == dialect.MySQL {
		return "VALUES(" + c.QuoteIdent(col) + ")"
	}
	return "excluded." + c.QuoteIdent(col)
}
