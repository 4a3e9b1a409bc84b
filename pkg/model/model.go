// Package model defines the versioned data-model document: an ordered set of
// entities with typed attributes plus the relations between them. Documents
// are treated as opaque, pre-validated values by the versioning core; this
// package only provides the value types, identity keys and equality helpers
// that diff and merge are built on.
package model

import "encoding/json"

// Relation kinds supported by the editor.
const (
	KindAssociation    = "ASSOCIATION"
	KindComposition    = "COMPOSITION"
	KindAggregation    = "AGGREGATION"
	KindGeneralization = "GENERALIZATION"
	KindManyToMany     = "MANY_TO_MANY"
)

// Document is a single immutable snapshot of a project's data model.
type Document struct {
	Entities    []Entity          `json:"entities"`
	Relations   []Relation        `json:"relations"`
	Constraints []json.RawMessage `json:"constraints,omitempty"`
}

// Entity is a named node in the model. Name is the identity key within a
// document.
type Entity struct {
	Name       string `json:"name"`
	Stereotype string `json:"stereotype,omitempty"`
	Attrs      []Attr `json:"attrs"`
}

// Attr is a typed attribute of an entity. Name is unique within the entity.
type Attr struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	PK       bool   `json:"pk,omitempty"`
	Unique   bool   `json:"unique,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
}

// Relation is a directed edge between two entities. Identity for diff and
// merge is the ordered (From, To) pair only; Kind is compared as a value,
// not part of the key. Two relations sharing an endpoint pair therefore
// collide even when their kinds differ.
type Relation struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Kind     string `json:"kind"`
	FromCard string `json:"from_card,omitempty"`
	ToCard   string `json:"to_card,omitempty"`
	Via      string `json:"via,omitempty"`
}

// Key returns the diff/merge identity of the relation.
func (r Relation) Key() RelationKey {
	return RelationKey{From: r.From, To: r.To}
}

// RelationKey is the ordered endpoint pair identifying a relation.
type RelationKey struct {
	From string
	To   string
}

// String renders the key in "from->to" form for conflict payloads and logs.
func (k RelationKey) String() string {
	return k.From + "->" + k.To
}

// Equal reports value equality of two attributes (name, type and all flags).
func (a Attr) Equal(b Attr) bool {
	return a.Name == b.Name &&
		a.Type == b.Type &&
		a.PK == b.PK &&
		a.Unique == b.Unique &&
		a.Nullable == b.Nullable
}

// SameShape reports whether two relations agree on everything that diff and
// merge compare: kind, cardinalities and the join entity.
func (r Relation) SameShape(o Relation) bool {
	return r.Kind == o.Kind &&
		r.FromCard == o.FromCard &&
		r.ToCard == o.ToCard &&
		r.Via == o.Via
}

// Equal reports deep value equality of two entities, attributes included.
func (e Entity) Equal(o Entity) bool {
	if e.Name != o.Name || e.Stereotype != o.Stereotype || len(e.Attrs) != len(o.Attrs) {
		return false
	}
	for i := range e.Attrs {
		if !e.Attrs[i].Equal(o.Attrs[i]) {
			return false
		}
	}
	return true
}

// AttrIndex returns the entity's attributes keyed by name.
func (e Entity) AttrIndex() map[string]Attr {
	idx := make(map[string]Attr, len(e.Attrs))
	for _, a := range e.Attrs {
		idx[a.Name] = a
	}
	return idx
}

// EntityIndex returns the document's entities keyed by name.
func (d Document) EntityIndex() map[string]Entity {
	idx := make(map[string]Entity, len(d.Entities))
	for _, e := range d.Entities {
		idx[e.Name] = e
	}
	return idx
}

// RelationIndex returns the document's relations keyed by endpoint pair.
// With duplicate pairs the last one wins, matching the documented identity
// limitation.
func (d Document) RelationIndex() map[RelationKey]Relation {
	idx := make(map[RelationKey]Relation, len(d.Relations))
	for _, r := range d.Relations {
		idx[r.Key()] = r
	}
	return idx
}

// Clone returns a deep copy of the document. Committed documents are
// immutable; callers that derive new snapshots (restore, branch seeding,
// merge) work on copies.
func (d Document) Clone() Document {
	out := Document{}
	if d.Entities != nil {
		out.Entities = make([]Entity, len(d.Entities))
		for i, e := range d.Entities {
			out.Entities[i] = e
			if e.Attrs != nil {
				out.Entities[i].Attrs = make([]Attr, len(e.Attrs))
				copy(out.Entities[i].Attrs, e.Attrs)
			}
		}
	}
	if d.Relations != nil {
		out.Relations = make([]Relation, len(d.Relations))
		copy(out.Relations, d.Relations)
	}
	if d.Constraints != nil {
		out.Constraints = make([]json.RawMessage, len(d.Constraints))
		for i, c := range d.Constraints {
			out.Constraints[i] = append(json.RawMessage(nil), c...)
		}
	}
	return out
}

// Empty reports whether the document carries no entities and no relations.
// The merge engine uses an empty document as the base for disjoint histories.
func (d Document) Empty() bool {
	return len(d.Entities) == 0 && len(d.Relations) == 0
}
