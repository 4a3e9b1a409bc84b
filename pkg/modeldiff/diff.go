// Package modeldiff computes a structural comparison of two model documents.
// The comparison understands the entity/attribute/relation shape of the
// document rather than treating it as text: entities are matched by name,
// attributes by name within their entity, relations by their ordered
// endpoint pair.
//
// Diff is a pure function of its inputs. Output slices are sorted by key so
// repeated runs over the same documents produce identical reports.
package modeldiff

import (
	"sort"

	"github.com/schemata-hq/schemata-server/pkg/model"
)

// Report itemizes every difference between two documents.
type Report struct {
	Entities  EntityChanges   `json:"entities"`
	Relations RelationChanges `json:"relations"`
}

// EntityChanges groups entity-level differences.
type EntityChanges struct {
	Added   []model.Entity `json:"added"`
	Removed []model.Entity `json:"removed"`
	Changed []EntityChange `json:"changed"`
}

// EntityChange describes an entity present on both sides but not identical.
type EntityChange struct {
	Name          string       `json:"name"`
	FromStereo    string       `json:"from_stereotype,omitempty"`
	ToStereo      string       `json:"to_stereotype,omitempty"`
	StereoChanged bool         `json:"stereotype_changed"`
	AttrsAdded    []model.Attr `json:"attrs_added,omitempty"`
	AttrsRemoved  []model.Attr `json:"attrs_removed,omitempty"`
	AttrsChanged  []AttrChange `json:"attrs_changed,omitempty"`
}

// AttrChange carries both sides of a modified attribute.
type AttrChange struct {
	Name string     `json:"name"`
	From model.Attr `json:"from"`
	To   model.Attr `json:"to"`
}

// RelationChanges groups relation-level differences.
type RelationChanges struct {
	Added   []model.Relation `json:"added"`
	Removed []model.Relation `json:"removed"`
	Changed []RelationChange `json:"changed"`
}

// RelationChange carries both sides of a modified relation.
type RelationChange struct {
	From model.Relation `json:"from"`
	To   model.Relation `json:"to"`
}

// Empty reports whether the diff found no differences in any category.
func (r Report) Empty() bool {
	return len(r.Entities.Added) == 0 &&
		len(r.Entities.Removed) == 0 &&
		len(r.Entities.Changed) == 0 &&
		len(r.Relations.Added) == 0 &&
		len(r.Relations.Removed) == 0 &&
		len(r.Relations.Changed) == 0
}

// Diff compares two documents and itemizes additions, removals and changes
// for entities and relations. Neither input is mutated.
func Diff(from, to model.Document) Report {
	var rep Report
	rep.Entities = diffEntities(from, to)
	rep.Relations = diffRelations(from, to)
	return rep
}

func diffEntities(from, to model.Document) EntityChanges {
	fromIdx := from.EntityIndex()
	toIdx := to.EntityIndex()

	var ch EntityChanges
	for _, e := range from.Entities {
		if _, ok := toIdx[e.Name]; !ok {
			ch.Removed = append(ch.Removed, e)
		}
	}
	for _, e := range to.Entities {
		fromEnt, ok := fromIdx[e.Name]
		if !ok {
			ch.Added = append(ch.Added, e)
			continue
		}
		if ec, changed := diffEntity(fromEnt, e); changed {
			ch.Changed = append(ch.Changed, ec)
		}
	}

	sort.Slice(ch.Added, func(i, j int) bool { return ch.Added[i].Name < ch.Added[j].Name })
	sort.Slice(ch.Removed, func(i, j int) bool { return ch.Removed[i].Name < ch.Removed[j].Name })
	sort.Slice(ch.Changed, func(i, j int) bool { return ch.Changed[i].Name < ch.Changed[j].Name })
	return ch
}

// diffEntity compares one entity present on both sides. An entity counts as
// changed iff its stereotype differs or any attribute was added, removed or
// modified.
func diffEntity(from, to model.Entity) (EntityChange, bool) {
	ec := EntityChange{Name: to.Name}

	if from.Stereotype != to.Stereotype {
		ec.StereoChanged = true
		ec.FromStereo = from.Stereotype
		ec.ToStereo = to.Stereotype
	}

	fromAttrs := from.AttrIndex()
	toAttrs := to.AttrIndex()

	for _, a := range from.Attrs {
		if _, ok := toAttrs[a.Name]; !ok {
			ec.AttrsRemoved = append(ec.AttrsRemoved, a)
		}
	}
	for _, a := range to.Attrs {
		fromAttr, ok := fromAttrs[a.Name]
		if !ok {
			ec.AttrsAdded = append(ec.AttrsAdded, a)
			continue
		}
		if !fromAttr.Equal(a) {
			ec.AttrsChanged = append(ec.AttrsChanged, AttrChange{Name: a.Name, From: fromAttr, To: a})
		}
	}

	sort.Slice(ec.AttrsAdded, func(i, j int) bool { return ec.AttrsAdded[i].Name < ec.AttrsAdded[j].Name })
	sort.Slice(ec.AttrsRemoved, func(i, j int) bool { return ec.AttrsRemoved[i].Name < ec.AttrsRemoved[j].Name })
	sort.Slice(ec.AttrsChanged, func(i, j int) bool { return ec.AttrsChanged[i].Name < ec.AttrsChanged[j].Name })

	changed := ec.StereoChanged ||
		len(ec.AttrsAdded) > 0 ||
		len(ec.AttrsRemoved) > 0 ||
		len(ec.AttrsChanged) > 0
	return ec, changed
}

func diffRelations(from, to model.Document) RelationChanges {
	fromIdx := from.RelationIndex()
	toIdx := to.RelationIndex()

	var ch RelationChanges
	for _, r := range from.Relations {
		if _, ok := toIdx[r.Key()]; !ok {
			ch.Removed = append(ch.Removed, r)
		}
	}
	for _, r := range to.Relations {
		fromRel, ok := fromIdx[r.Key()]
		if !ok {
			ch.Added = append(ch.Added, r)
			continue
		}
		if !fromRel.SameShape(r) {
			ch.Changed = append(ch.Changed, RelationChange{From: fromRel, To: r})
		}
	}

	byKey := func(a, b model.Relation) bool {
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	}
	sort.Slice(ch.Added, func(i, j int) bool { return byKey(ch.Added[i], ch.Added[j]) })
	sort.Slice(ch.Removed, func(i, j int) bool { return byKey(ch.Removed[i], ch.Removed[j]) })
	sort.Slice(ch.Changed, func(i, j int) bool { return byKey(ch.Changed[i].To, ch.Changed[j].To) })
	return ch
}
