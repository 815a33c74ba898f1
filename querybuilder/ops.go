package querybuilder

// Convenience constructors for the Op operator bag, mirroring the closed
// operator set from spec §4.2.1: eq, ne, gt, gte, lt, lte, in, notIn,
// contains, startsWith, endsWith, like, isNull, arrayContains,
// arrayContainedBy, arrayOverlaps, jsonContains.

func Eq(v any) Op  { return Op{Eq: v} }
func Ne(v any) Op  { return Op{Ne: v} }
func Gt(v any) Op  { return Op{Gt: v} }
func Gte(v any) Op { return Op{Gte: v} }
func Lt(v any) Op  { return Op{Lt: v} }
func Lte(v any) Op { return Op{Lte: v} }

func In(vs ...any) Op    { return Op{In: vs} }
func NotIn(vs ...any) Op { return Op{NotIn: vs} }

func Contains(v any, mode ...string) Op      { return Op{Contains: v, Mode: modeOf(mode)} }
func StartsWith(v any, mode ...string) Op    { return Op{StartsWith: v, Mode: modeOf(mode)} }
func EndsWith(v any, mode ...string) Op      { return Op{EndsWith: v, Mode: modeOf(mode)} }
func Like(pattern string, mode ...string) Op { return Op{Like: pattern, Mode: modeOf(mode)} }

func IsNull() Op  { t := true; return Op{IsNull: &t} }
func NotNull() Op { f := false; return Op{IsNull: &f} }

func ArrayContains(v any) Op    { return Op{ArrayContains: v} }
func ArrayContainedBy(v any) Op { return Op{ArrayContainedBy: v} }
func ArrayOverlaps(v any) Op    { return Op{ArrayOverlaps: v} }
func JSONContains(v any) Op     { return Op{JSONContains: v} }

func modeOf(mode []string) string {
	if len(mode) > 0 {
		return mode[0]
	}
	return ""
}

// And composes nested filters with AND.
func And(filters ...Where) Where { return Where{KeyAnd: filters} }

// Or composes nested filters with OR.
func Or(filters ...Where) Where { return Where{KeyOr: filters} }

// Not negates a nested filter.
func Not(filter Where) Where { return Where{KeyNot: filter} }
