// Package relation declares the three relation variants a model can carry:
// one, many, and many-through. Targets are lazy thunks so that cyclic
// schemas (A references B, B references A) can be declared in any order;
// the registry resolves every thunk once, at construction time.
package relation

import "github.com/quillorm/quill/table"

// Kind is the closed set of relation variants.
type Kind string

// The three relation variants.
const (
	KindOne         Kind = "one"
	KindMany        Kind = "many"
	KindManyThrough Kind = "many_through"
)

// Target is a lazy reference to the related table, allowing cyclic schemas.
type Target func() *table.Table

// Def is the immutable relation descriptor.
type Def struct {
	Kind Kind

	// Target is always set. Join is only set for Kind == KindManyThrough.
	Target Target
	Join   Target

	// ForeignKey: for "one", the column on *this* table pointing at Target's
	// primary key; for "many", the column on *Target* pointing back at this
	// table's primary key. Unused for "many_through".
	ForeignKey string

	// ThisKey/ThatKey: for "many_through", the join table's columns
	// pointing back at this table and at Target, respectively.
	ThisKey string
	ThatKey string
}

// Relation is an immutable, already-finalized relation descriptor.
type Relation struct{ def Def }

// Descriptor returns the underlying Def.
func (r Relation) Descriptor() Def { return r.def }

// One declares a to-one relation reached via a foreign key on this table.
func One(target Target, fk string) Relation {
	return Relation{def: Def{Kind: KindOne, Target: target, ForeignKey: fk}}
}

// ManyBuilder is the intermediate value returned by Many, allowing an
// optional .Through(...) to turn it into a many-through relation.
type ManyBuilder struct{ def Def }

// Many declares a to-many relation. fk is variadic only so a plain
// Many(target) reads cleanly when the relation is about to be turned
// many-through via .Through(...), where ForeignKey is unused; for a
// non-through many relation fk is effectively required; the registry does
// not infer it, and construction fails validation against Target's columns
// if it is left empty. fk names the column on Target that points back at
// this table's primary key.
func Many(target Target, fk ...string) ManyBuilder {
	d := Def{Kind: KindMany, Target: target}
	if len(fk) > 0 {
		d.ForeignKey = fk[0]
	}
	return ManyBuilder{def: d}
}

// Descriptor finalizes a plain (non-through) to-many relation.
func (m ManyBuilder) Descriptor() Def { return m.def }

// Relation finalizes a plain (non-through) to-many relation as a Relation.
func (m ManyBuilder) Relation() Relation { return Relation{def: m.def} }

// Through turns a to-many relation into a many-through relation reached via
// a join table: join.thisKey references this table's primary key, and
// join.thatKey references Target's primary key.
func (m ManyBuilder) Through(join Target, thisKey, thatKey string) Relation {
	d := m.def
	d.Kind = KindManyThrough
	d.Join = join
	d.ThisKey = thisKey
	d.ThatKey = thatKey
	return Relation{def: d}
}
