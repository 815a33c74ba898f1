package registry

import (
	"sort"

	"github.com/quillorm/quill/table"
)

// TenantGraph is the static partition of tables computed at registry
// build time (spec §3.5). Root is at most one table name; the other
// three tiers are sets, represented as sorted slices for deterministic
// output.
type TenantGraph struct {
	Root             string
	DirectlyScoped   []string
	IndirectlyScoped []string
	Shared           []string
}

// buildTenantGraph classifies every registered table into root /
// directlyScoped / indirectlyScoped / shared by following isTenant
// annotations and references.
func buildTenantGraph(tables map[string]*table.Table, models map[string]Model) TenantGraph {
	directlyScoped := map[string]bool{}
	shared := map[string]bool{}
	referencedByTenant := map[string]bool{} // table names whose PK a tenant column points at

	for _, tbl := range tables {
		if tbl.Shared {
			shared[tbl.Name] = true
		}
		for _, c := range tbl.Columns {
			if c.IsTenant && c.References != nil {
				directlyScoped[tbl.Name] = true
				referencedByTenant[c.References.Table] = true
			}
		}
	}

	// root: referenced by a tenant column, and not itself tenant-scoped.
	var root string
	for name := range referencedByTenant {
		if directlyScoped[name] || shared[name] {
			continue
		}
		root = name
		break
	}

	// indirectlyScoped: reachable from a directlyScoped table via
	// references, transitively, excluding tables already classified.
	indirectly := map[string]bool{}
	frontier := make([]string, 0, len(directlyScoped))
	for name := range directlyScoped {
		frontier = append(frontier, name)
	}
	visited := map[string]bool{}
	for len(frontier) > 0 {
		name := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if visited[name] {
			continue
		}
		visited[name] = true
		tbl, ok := tables[name]
		if !ok {
			continue
		}
		for _, c := range tbl.Columns {
			if c.References == nil {
				continue
			}
			target := c.References.Table
			if target == tbl.Name || target == root {
				continue
			}
			if directlyScoped[target] || shared[target] {
				continue
			}
			if !indirectly[target] {
				indirectly[target] = true
				frontier = append(frontier, target)
			}
		}
	}

	return TenantGraph{
		Root:             root,
		DirectlyScoped:   sortedKeys(directlyScoped),
		IndirectlyScoped: sortedKeys(indirectly),
		Shared:           sortedKeys(shared),
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
