// Package modelmerge reconciles two divergent model documents against their
// common ancestor. The merge is non-blocking: a deterministic merged document
// is always produced, and incompatible edits are surfaced as Conflict entries
// resolved in favor of "ours" for later manual reconciliation.
package modelmerge

import (
	"github.com/schemata-hq/schemata-server/pkg/model"
)

// Conflict types.
const (
	ConflictEntity    = "entity"
	ConflictAttribute = "attribute"
	ConflictRelation  = "relation"
)

// Conflict records a key both sides changed incompatibly relative to the
// base. Exactly one of the payload pairs is set, matching Type.
type Conflict struct {
	Type string `json:"type"`

	// Entity name, or the owning entity for attribute conflicts.
	EntityName string `json:"entity_name,omitempty"`
	// Attribute name for attribute conflicts.
	AttrName string `json:"attr_name,omitempty"`
	// "from->to" endpoint pair for relation conflicts.
	RelationKey string `json:"relation_key,omitempty"`

	OursEntity   *model.Entity   `json:"ours_entity,omitempty"`
	TheirsEntity *model.Entity   `json:"theirs_entity,omitempty"`
	OursAttr     *model.Attr     `json:"ours_attr,omitempty"`
	TheirsAttr   *model.Attr     `json:"theirs_attr,omitempty"`
	OursRel      *model.Relation `json:"ours_relation,omitempty"`
	TheirsRel    *model.Relation `json:"theirs_relation,omitempty"`
}

// Result is the merged document plus every conflict encountered.
type Result struct {
	Document  model.Document `json:"document"`
	Conflicts []Conflict     `json:"conflicts"`
}

// Merge performs a three-way merge of ours and theirs against base. Callers
// with no common ancestor pass an empty base, which classifies every key on
// either side as a branch-local addition.
//
// Entities and relations are merged independently over the union of keys in
// base, ours and theirs. Entities that survive from both sides get a second
// per-attribute merge pass using the same presence rules.
func Merge(base, ours, theirs model.Document) Result {
	var res Result
	res.Document.Entities, res.Conflicts = mergeEntities(base, ours, theirs)
	relations, relConflicts := mergeRelations(base, ours, theirs)
	res.Document.Relations = relations
	res.Conflicts = append(res.Conflicts, relConflicts...)

	// Constraints are opaque to the merge; carry ours, fall back to theirs.
	if len(ours.Constraints) > 0 {
		res.Document.Constraints = ours.Constraints
	} else {
		res.Document.Constraints = theirs.Constraints
	}
	return res
}

// entityKeys returns the union of entity names in stable order: base order
// first, then ours-only additions, then theirs-only additions.
func entityKeys(base, ours, theirs model.Document) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, d := range []model.Document{base, ours, theirs} {
		for _, e := range d.Entities {
			if !seen[e.Name] {
				seen[e.Name] = true
				keys = append(keys, e.Name)
			}
		}
	}
	return keys
}

func mergeEntities(base, ours, theirs model.Document) ([]model.Entity, []Conflict) {
	baseIdx := base.EntityIndex()
	oursIdx := ours.EntityIndex()
	theirsIdx := theirs.EntityIndex()

	var merged []model.Entity
	var conflicts []Conflict

	for _, name := range entityKeys(base, ours, theirs) {
		b, inBase := baseIdx[name]
		o, inOurs := oursIdx[name]
		t, inTheirs := theirsIdx[name]

		switch {
		case !inBase && inOurs && !inTheirs:
			merged = append(merged, o)
		case !inBase && !inOurs && inTheirs:
			merged = append(merged, t)
		case inBase && !inOurs && !inTheirs:
			// Deleted on both sides.
		case inBase && inOurs && !inTheirs:
			// Their deletion is overridden by our kept copy.
			merged = append(merged, o)
		case inBase && !inOurs && inTheirs:
			merged = append(merged, t)
		case inOurs && inTheirs:
			ent, cs := mergeEntityPair(name, b, inBase, o, t)
			merged = append(merged, ent)
			conflicts = append(conflicts, cs...)
		}
	}
	return merged, conflicts
}

// mergeEntityPair reconciles an entity present on both sides. When one whole
// side wins (equal values, or only one side diverged from base) attribute
// merging is skipped; otherwise stereotype and attributes are merged
// per-field with the same presence rules.
func mergeEntityPair(name string, base model.Entity, inBase bool, ours, theirs model.Entity) (model.Entity, []Conflict) {
	if ours.Equal(theirs) {
		return ours, nil
	}
	if inBase {
		if ours.Equal(base) {
			return theirs, nil
		}
		if theirs.Equal(base) {
			return ours, nil
		}
	}

	// Both sides diverged. Merge stereotype and attributes field by field;
	// irreconcilable pieces keep ours and record a conflict.
	merged := model.Entity{Name: name}
	var conflicts []Conflict

	merged.Stereotype, conflicts = mergeStereotype(name, base, inBase, ours, theirs, conflicts)

	attrs, attrConflicts := mergeAttrs(name, base, inBase, ours, theirs)
	merged.Attrs = attrs
	conflicts = append(conflicts, attrConflicts...)
	return merged, conflicts
}

func mergeStereotype(name string, base model.Entity, inBase bool, ours, theirs model.Entity, conflicts []Conflict) (string, []Conflict) {
	if ours.Stereotype == theirs.Stereotype {
		return ours.Stereotype, conflicts
	}
	if inBase {
		if ours.Stereotype == base.Stereotype {
			return theirs.Stereotype, conflicts
		}
		if theirs.Stereotype == base.Stereotype {
			return ours.Stereotype, conflicts
		}
	}
	o, t := ours, theirs
	conflicts = append(conflicts, Conflict{
		Type:         ConflictEntity,
		EntityName:   name,
		OursEntity:   &o,
		TheirsEntity: &t,
	})
	return ours.Stereotype, conflicts
}

func attrKeys(base model.Entity, inBase bool, ours, theirs model.Entity) []string {
	seen := make(map[string]bool)
	var keys []string
	sides := []model.Entity{ours, theirs}
	if inBase {
		sides = []model.Entity{base, ours, theirs}
	}
	for _, e := range sides {
		for _, a := range e.Attrs {
			if !seen[a.Name] {
				seen[a.Name] = true
				keys = append(keys, a.Name)
			}
		}
	}
	return keys
}

func mergeAttrs(entityName string, base model.Entity, entityInBase bool, ours, theirs model.Entity) ([]model.Attr, []Conflict) {
	var baseIdx map[string]model.Attr
	if entityInBase {
		baseIdx = base.AttrIndex()
	}
	oursIdx := ours.AttrIndex()
	theirsIdx := theirs.AttrIndex()

	var merged []model.Attr
	var conflicts []Conflict

	for _, name := range attrKeys(base, entityInBase, ours, theirs) {
		b, inBase := baseIdx[name]
		o, inOurs := oursIdx[name]
		t, inTheirs := theirsIdx[name]

		switch {
		case !inBase && inOurs && !inTheirs:
			merged = append(merged, o)
		case !inBase && !inOurs && inTheirs:
			merged = append(merged, t)
		case inBase && !inOurs && !inTheirs:
			// Dropped on both sides.
		case inBase && inOurs && !inTheirs:
			merged = append(merged, o)
		case inBase && !inOurs && inTheirs:
			merged = append(merged, t)
		case inOurs && inTheirs:
			switch {
			case o.Equal(t):
				merged = append(merged, o)
			case inBase && o.Equal(b):
				merged = append(merged, t)
			case inBase && t.Equal(b):
				merged = append(merged, o)
			default:
				oc, tc := o, t
				conflicts = append(conflicts, Conflict{
					Type:       ConflictAttribute,
					EntityName: entityName,
					AttrName:   name,
					OursAttr:   &oc,
					TheirsAttr: &tc,
				})
				merged = append(merged, o)
			}
		}
	}
	return merged, conflicts
}

func relationKeys(base, ours, theirs model.Document) []model.RelationKey {
	seen := make(map[model.RelationKey]bool)
	var keys []model.RelationKey
	for _, d := range []model.Document{base, ours, theirs} {
		for _, r := range d.Relations {
			if !seen[r.Key()] {
				seen[r.Key()] = true
				keys = append(keys, r.Key())
			}
		}
	}
	return keys
}

func mergeRelations(base, ours, theirs model.Document) ([]model.Relation, []Conflict) {
	baseIdx := base.RelationIndex()
	oursIdx := ours.RelationIndex()
	theirsIdx := theirs.RelationIndex()

	var merged []model.Relation
	var conflicts []Conflict

	for _, key := range relationKeys(base, ours, theirs) {
		b, inBase := baseIdx[key]
		o, inOurs := oursIdx[key]
		t, inTheirs := theirsIdx[key]

		switch {
		case !inBase && inOurs && !inTheirs:
			merged = append(merged, o)
		case !inBase && !inOurs && inTheirs:
			merged = append(merged, t)
		case inBase && !inOurs && !inTheirs:
			// Removed on both sides.
		case inBase && inOurs && !inTheirs:
			merged = append(merged, o)
		case inBase && !inOurs && inTheirs:
			merged = append(merged, t)
		case inOurs && inTheirs:
			switch {
			case o.SameShape(t):
				merged = append(merged, o)
			case inBase && o.SameShape(b):
				merged = append(merged, t)
			case inBase && t.SameShape(b):
				merged = append(merged, o)
			default:
				oc, tc := o, t
				conflicts = append(conflicts, Conflict{
					Type:        ConflictRelation,
					RelationKey: key.String(),
					OursRel:     &oc,
					TheirsRel:   &tc,
				})
				merged = append(merged, o)
			}
		}
	}
	return merged, conflicts
}
