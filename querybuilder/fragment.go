// Package querybuilder turns structured, composable query descriptions
// (where/select/orderBy/limit/offset/data) into dialect-parameterized SQL
// text plus bound parameters. No builder ever concatenates caller-supplied
// values into the SQL text — every value is appended to the parameter list
// and referenced only via dialect.Param.
package querybuilder

import (
	"strings"

	"github.com/quillorm/quill/dialect"
)

// Fragment is a raw SQL fragment: a sequence of literal strings with
// caller-supplied values interleaved between them (Strings has exactly
// len(Values)+1 elements). Fragments compose: a Fragment value appearing
// among another Fragment's Values is spliced in place and its own
// placeholders are renumbered to the outer position, rather than treated
// as a bound parameter.
type Fragment struct {
	Strings []string
	Values  []any
}

// SQL builds a Fragment from alternating literal strings and values. It is
// the Go stand-in for a `sql\`...\`` tagged template: call it with the
// literal parts (length N+1) and the N values that fall between them.
func SQL(strings []string, values ...any) Fragment {
	return Fragment{Strings: strings, Values: values}
}

// Lit wraps a single literal SQL string with no parameters.
func Lit(s string) Fragment { return Fragment{Strings: []string{s}} }

// Render compiles the fragment into {text, params} against d, splicing any
// nested Fragment values and renumbering placeholders from the outer
// position.
func (f Fragment) Render(d dialect.Dialect) (text string, params []any) {
	var b strings.Builder
	var ps []any
	f.render(d, &b, &ps)
	return b.String(), ps
}

func (f Fragment) render(d dialect.Dialect, b *strings.Builder, params *[]any) {
	for i, s := range f.Strings {
		b.WriteString(s)
		if i >= len(f.Values) {
			continue
		}
		switch v := f.Values[i].(type) {
		case Fragment:
			v.render(d, b, params)
		default:
			*params = append(*params, v)
			b.WriteString(d.Param(len(*params)))
		}
	}
}

// Join concatenates fragments with a plain-text separator (no parameter).
func Join(sep string, frags ...Fragment) Fragment {
	if len(frags) == 0 {
		return Fragment{Strings: []string{""}}
	}
	strs := []string{}
	vals := []any{}
	for i, f := range frags {
		if i == 0 {
			strs = append(strs, f.Strings[0])
		} else {
			strs[len(strs)-1] += sep + f.Strings[0]
		}
		vals = append(vals, f.Values...)
		strs = append(strs, f.Strings[1:]...)
	}
	return Fragment{Strings: strs, Values: vals}
}
