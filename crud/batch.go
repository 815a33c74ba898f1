package crud

// KeyFunc extracts a comparable key from a decoded row, used to reorder or
// group secondary-query results during include expansion.
type KeyFunc func(map[string]any) any

// OrderByKeys reorders rows to match the order of requested keys — the
// one-relation case, where exactly one (or zero) row corresponds to each
// key. Missing keys map to a nil row.
func OrderByKeys(keys []any, rows []map[string]any, keyFn KeyFunc) []map[string]any {
	lookup := make(map[any]map[string]any, len(rows))
	for _, r := range rows {
		lookup[keyFn(r)] = r
	}
	out := make([]map[string]any, len(keys))
	for i, k := range keys {
		out[i] = lookup[k]
	}
	return out
}

// GroupByKey groups rows by a key function — the many-relation case, where
// an arbitrary number of rows can share a foreign-key value.
func GroupByKey(rows []map[string]any, keyFn KeyFunc) map[any][]map[string]any {
	out := make(map[any][]map[string]any)
	for _, r := range rows {
		k := keyFn(r)
		out[k] = append(out[k], r)
	}
	return out
}

// OrderGroupsByKeys reorders grouped rows to match the order of requested
// keys, producing one (possibly empty) slice per key.
func OrderGroupsByKeys(keys []any, groups map[any][]map[string]any) [][]map[string]any {
	out := make([][]map[string]any, len(keys))
	for i, k := range keys {
		out[i] = groups[k]
	}
	return out
}
