// Package registry assembles tables and relations declared across a
// schema into an immutable Registry: a validated map from model name to
// Model, plus a precomputed tenant graph. Validation — relation target
// existence, foreign-key side correctness, reserved-name collisions — runs
// once at construction time so every later operation can trust the
// registry without re-checking.
package registry

import (
	"fmt"
	"sort"

	"github.com/quillorm/quill/relation"
	"github.com/quillorm/quill/table"
)

// ReservedNames are the façade-level members a model name must not
// collide with.
var ReservedNames = map[string]bool{
	"query":      true,
	"close":      true,
	"isHealthy":  true,
	"_internals": true,
}

// Model is {table, relations}.
type Model struct {
	Table     *table.Table
	Relations map[string]relation.Relation
}

// Registry is the immutable, validated map from model name to Model, plus
// the derived tenant graph.
type Registry struct {
	Models      map[string]Model
	TenantGraph TenantGraph
}

// Entry declares one model to register: its table and its named
// relations.
type Entry struct {
	Name      string
	Table     *table.Table
	Relations map[string]relation.Relation
}

// ModelEntry is shorthand for an Entry with no relations.
func ModelEntry(name string, tbl *table.Table) Entry {
	return Entry{Name: name, Table: tbl}
}

// New builds a Registry from entries, validating relation targets, the
// foreign-key side of each relation, and reserved-name collisions before
// returning. Returns an error describing the first validation failure
// found — construction is all-or-nothing, matching spec §3.4's invariant
// that a bad registry must never come into existence.
func New(entries ...Entry) (*Registry, error) {
	models := make(map[string]Model, len(entries))
	tables := make(map[string]*table.Table, len(entries))

	for _, e := range entries {
		if ReservedNames[e.Name] {
			return nil, fmt.Errorf("registry: model name %q collides with a reserved façade member", e.Name)
		}
		if _, dup := models[e.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate model name %q", e.Name)
		}
		models[e.Name] = Model{Table: e.Table, Relations: e.Relations}
		tables[e.Table.Name] = e.Table
	}

	for name, m := range models {
		for relName, rel := range m.Relations {
			def := rel.Descriptor()
			if def.Target == nil {
				return nil, fmt.Errorf("registry: model %q relation %q: target thunk is nil", name, relName)
			}
			target := def.Target()
			if target == nil {
				return nil, fmt.Errorf("registry: model %q relation %q: target table is nil", name, relName)
			}
			if _, ok := tables[target.Name]; !ok {
				return nil, fmt.Errorf("registry: model %q relation %q: target table %q is not registered", name, relName, target.Name)
			}
			if err := validateForeignKeySide(m.Table, target, def); err != nil {
				return nil, fmt.Errorf("registry: model %q relation %q: %w", name, relName, err)
			}
		}
	}

	return &Registry{
		Models:      models,
		TenantGraph: buildTenantGraph(tables, models),
	}, nil
}

// validateForeignKeySide checks that a relation's foreign-key column
// lives on the correct side: the source table for a `one`, the target
// table for a `many`/`many-through` (on the join table, for through).
func validateForeignKeySide(source, target *table.Table, def relation.Def) error {
	switch def.Kind {
	case relation.KindOne:
		if _, ok := source.Column(def.ForeignKey); !ok {
			return fmt.Errorf("foreign key %q not found on source table %q", def.ForeignKey, source.Name)
		}
	case relation.KindMany:
		if _, ok := target.Column(def.ForeignKey); !ok {
			return fmt.Errorf("foreign key %q not found on target table %q", def.ForeignKey, target.Name)
		}
	case relation.KindManyThrough:
		if def.Join == nil {
			return fmt.Errorf("many-through relation missing join table")
		}
		join := def.Join()
		if join == nil {
			return fmt.Errorf("many-through relation missing join table")
		}
		if _, ok := join.Column(def.ThisKey); !ok {
			return fmt.Errorf("thisKey %q not found on join table %q", def.ThisKey, join.Name)
		}
		if _, ok := join.Column(def.ThatKey); !ok {
			return fmt.Errorf("thatKey %q not found on join table %q", def.ThatKey, join.Name)
		}
	}
	return nil
}

// ModelNames returns the registered model names in sorted order, for
// deterministic iteration.
func (r *Registry) ModelNames() []string {
	names := make([]string, 0, len(r.Models))
	for n := range r.Models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
