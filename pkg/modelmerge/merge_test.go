package modelmerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemata-hq/schemata-server/pkg/model"
)

func baseDoc() model.Document {
	return model.Document{
		Entities: []model.Entity{
			{Name: "Customer", Attrs: []model.Attr{
				{Name: "id", Type: "uuid", PK: true},
				{Name: "name", Type: "text"},
			}},
			{Name: "Order", Attrs: []model.Attr{
				{Name: "id", Type: "uuid", PK: true},
				{Name: "total", Type: "numeric"},
			}},
		},
		Relations: []model.Relation{
			{From: "Order", To: "Customer", Kind: model.KindAssociation, FromCard: "*", ToCard: "1"},
		},
	}
}

func entityNames(doc model.Document) []string {
	names := make([]string, len(doc.Entities))
	for i, e := range doc.Entities {
		names[i] = e.Name
	}
	return names
}

func TestMerge_FastForward(t *testing.T) {
	// ours == base, theirs moved ahead: result is exactly theirs, no conflicts.
	base := baseDoc()
	theirs := baseDoc()
	theirs.Entities = append(theirs.Entities, model.Entity{Name: "Invoice"})
	theirs.Entities[0].Attrs[1].Type = "varchar"

	res := Merge(base, base.Clone(), theirs)

	assert.Empty(t, res.Conflicts)
	assert.ElementsMatch(t, entityNames(theirs), entityNames(res.Document))
	idx := res.Document.EntityIndex()
	assert.Equal(t, "varchar", idx["Customer"].Attrs[1].Type)
}

func TestMerge_IdenticalBranches(t *testing.T) {
	base := baseDoc()
	side := baseDoc()
	side.Entities = append(side.Entities, model.Entity{Name: "Invoice"})

	res := Merge(base, side, side.Clone())

	assert.Empty(t, res.Conflicts)
	assert.ElementsMatch(t, entityNames(side), entityNames(res.Document))
}

func TestMerge_DisjointAdditions(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	ours.Entities = append(ours.Entities, model.Entity{Name: "Invoice"})
	theirs := baseDoc()
	theirs.Entities = append(theirs.Entities, model.Entity{Name: "Payment"})

	res := Merge(base, ours, theirs)

	assert.Empty(t, res.Conflicts)
	names := entityNames(res.Document)
	assert.Contains(t, names, "Invoice")
	assert.Contains(t, names, "Payment")
}

func TestMerge_BothDeleted(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	ours.Entities = ours.Entities[:1] // drop Order
	theirs := baseDoc()
	theirs.Entities = theirs.Entities[:1]

	res := Merge(base, ours, theirs)

	assert.Empty(t, res.Conflicts)
	assert.NotContains(t, entityNames(res.Document), "Order")
}

func TestMerge_DeletionOverriddenByKeep(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	theirs := baseDoc()
	theirs.Entities = theirs.Entities[:1] // theirs deleted Order

	res := Merge(base, ours, theirs)
	assert.Empty(t, res.Conflicts)
	assert.Contains(t, entityNames(res.Document), "Order")

	// Symmetric: ours deleted, theirs kept.
	res = Merge(base, theirs.Clone(), ours.Clone())
	assert.Empty(t, res.Conflicts)
	assert.Contains(t, entityNames(res.Document), "Order")
}

func TestMerge_OneSideChanged_NoConflict(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	theirs := baseDoc()
	theirs.Entities[1].Attrs[1].Type = "money" // only theirs changed Order.total

	res := Merge(base, ours, theirs)

	assert.Empty(t, res.Conflicts)
	idx := res.Document.EntityIndex()
	assert.Equal(t, "money", idx["Order"].Attrs[1].Type)
}

func TestMerge_AttributeTrueConflict_KeepsOurs(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	theirs := baseDoc()
	ours.Entities[1].Attrs[1].Type = "money"
	theirs.Entities[1].Attrs[1].Type = "decimal"

	res := Merge(base, ours, theirs)

	require.Len(t, res.Conflicts, 1)
	c := res.Conflicts[0]
	assert.Equal(t, ConflictAttribute, c.Type)
	assert.Equal(t, "Order", c.EntityName)
	assert.Equal(t, "total", c.AttrName)
	require.NotNil(t, c.OursAttr)
	require.NotNil(t, c.TheirsAttr)
	assert.Equal(t, "money", c.OursAttr.Type)
	assert.Equal(t, "decimal", c.TheirsAttr.Type)

	// Resolution keeps ours; the merge is never blocked.
	idx := res.Document.EntityIndex()
	assert.Equal(t, "money", idx["Order"].Attrs[1].Type)
}

func TestMerge_AttributeMergeWithinDivergedEntity(t *testing.T) {
	// Both sides touched Order but on different attributes: everything
	// merges cleanly one level down.
	base := baseDoc()
	ours := baseDoc()
	theirs := baseDoc()
	ours.Entities[1].Attrs = append(ours.Entities[1].Attrs, model.Attr{Name: "placed_at", Type: "timestamptz"})
	theirs.Entities[1].Attrs[1].Type = "money"

	res := Merge(base, ours, theirs)

	assert.Empty(t, res.Conflicts)
	idx := res.Document.EntityIndex()
	order := idx["Order"]
	attrs := order.AttrIndex()
	assert.Equal(t, "money", attrs["total"].Type)
	assert.Contains(t, attrs, "placed_at")
}

func TestMerge_StereotypeTrueConflict(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	theirs := baseDoc()
	ours.Entities[0].Stereotype = "aggregate"
	theirs.Entities[0].Stereotype = "value-object"

	res := Merge(base, ours, theirs)

	require.Len(t, res.Conflicts, 1)
	c := res.Conflicts[0]
	assert.Equal(t, ConflictEntity, c.Type)
	assert.Equal(t, "Customer", c.EntityName)

	idx := res.Document.EntityIndex()
	assert.Equal(t, "aggregate", idx["Customer"].Stereotype)
}

func TestMerge_BothAddedSameEntityIdentically(t *testing.T) {
	base := baseDoc()
	add := model.Entity{Name: "Invoice", Attrs: []model.Attr{{Name: "id", Type: "uuid", PK: true}}}
	ours := baseDoc()
	ours.Entities = append(ours.Entities, add)
	theirs := baseDoc()
	theirs.Entities = append(theirs.Entities, add)

	res := Merge(base, ours, theirs)

	assert.Empty(t, res.Conflicts)
	assert.Contains(t, entityNames(res.Document), "Invoice")
}

func TestMerge_BothAddedSameEntityDifferently(t *testing.T) {
	// No base entry to arbitrate: the clashing attribute is a conflict and
	// ours wins.
	base := baseDoc()
	ours := baseDoc()
	ours.Entities = append(ours.Entities, model.Entity{Name: "Invoice", Attrs: []model.Attr{
		{Name: "id", Type: "uuid", PK: true},
		{Name: "amount", Type: "numeric"},
	}})
	theirs := baseDoc()
	theirs.Entities = append(theirs.Entities, model.Entity{Name: "Invoice", Attrs: []model.Attr{
		{Name: "id", Type: "uuid", PK: true},
		{Name: "amount", Type: "money"},
	}})

	res := Merge(base, ours, theirs)

	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, ConflictAttribute, res.Conflicts[0].Type)
	assert.Equal(t, "Invoice", res.Conflicts[0].EntityName)
	assert.Equal(t, "amount", res.Conflicts[0].AttrName)

	idx := res.Document.EntityIndex()
	assert.Equal(t, "numeric", idx["Invoice"].AttrIndex()["amount"].Type)
}

func TestMerge_EmptyBase_DisjointHistories(t *testing.T) {
	// Resolver found no common ancestor: everything on both sides is a
	// branch-local addition, never a false conflict.
	ours := model.Document{Entities: []model.Entity{{Name: "Invoice"}}}
	theirs := model.Document{
		Entities:  []model.Entity{{Name: "Payment"}},
		Relations: []model.Relation{{From: "Payment", To: "Invoice", Kind: model.KindAssociation}},
	}

	res := Merge(model.Document{}, ours, theirs)

	assert.Empty(t, res.Conflicts)
	assert.ElementsMatch(t, []string{"Invoice", "Payment"}, entityNames(res.Document))
	require.Len(t, res.Document.Relations, 1)
}

func TestMerge_RelationCases(t *testing.T) {
	base := baseDoc()

	t.Run("one side changed kind wins", func(t *testing.T) {
		ours := baseDoc()
		theirs := baseDoc()
		theirs.Relations[0].Kind = model.KindComposition

		res := Merge(base, ours, theirs)

		assert.Empty(t, res.Conflicts)
		require.Len(t, res.Document.Relations, 1)
		assert.Equal(t, model.KindComposition, res.Document.Relations[0].Kind)
	})

	t.Run("true conflict keeps ours", func(t *testing.T) {
		ours := baseDoc()
		theirs := baseDoc()
		ours.Relations[0].Kind = model.KindComposition
		theirs.Relations[0].Kind = model.KindAggregation

		res := Merge(base, ours, theirs)

		require.Len(t, res.Conflicts, 1)
		c := res.Conflicts[0]
		assert.Equal(t, ConflictRelation, c.Type)
		assert.Equal(t, "Order->Customer", c.RelationKey)
		assert.Equal(t, model.KindComposition, c.OursRel.Kind)
		assert.Equal(t, model.KindAggregation, c.TheirsRel.Kind)
		require.Len(t, res.Document.Relations, 1)
		assert.Equal(t, model.KindComposition, res.Document.Relations[0].Kind)
	})

	t.Run("deletion overridden by keep", func(t *testing.T) {
		ours := baseDoc()
		theirs := baseDoc()
		theirs.Relations = nil

		res := Merge(base, ours, theirs)

		assert.Empty(t, res.Conflicts)
		require.Len(t, res.Document.Relations, 1)
	})

	t.Run("deleted on both sides", func(t *testing.T) {
		ours := baseDoc()
		ours.Relations = nil
		theirs := baseDoc()
		theirs.Relations = nil

		res := Merge(base, ours, theirs)

		assert.Empty(t, res.Conflicts)
		assert.Empty(t, res.Document.Relations)
	})

	t.Run("cardinality conflict", func(t *testing.T) {
		ours := baseDoc()
		theirs := baseDoc()
		ours.Relations[0].ToCard = "0..1"
		theirs.Relations[0].ToCard = "1..*"

		res := Merge(base, ours, theirs)

		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, ConflictRelation, res.Conflicts[0].Type)
		assert.Equal(t, "0..1", res.Document.Relations[0].ToCard)
	})
}

func TestMerge_Deterministic(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	ours.Entities = append(ours.Entities, model.Entity{Name: "Invoice"})
	theirs := baseDoc()
	theirs.Entities = append(theirs.Entities, model.Entity{Name: "Payment"})
	theirs.Entities[0].Attrs[1].Type = "varchar"

	first := Merge(base, ours, theirs)
	second := Merge(base, ours, theirs)
	assert.Equal(t, first, second)

	// Stable union order: base entities first, then ours-only, then
	// theirs-only additions.
	assert.Equal(t, []string{"Customer", "Order", "Invoice", "Payment"}, entityNames(first.Document))
}

func TestMerge_InputsNotMutated(t *testing.T) {
	base := baseDoc()
	ours := baseDoc()
	theirs := baseDoc()
	ours.Entities[1].Attrs[1].Type = "money"
	theirs.Entities[1].Attrs[1].Type = "decimal"

	baseBefore := base.Clone()
	oursBefore := ours.Clone()
	theirsBefore := theirs.Clone()

	_ = Merge(base, ours, theirs)

	assert.Equal(t, baseBefore, base)
	assert.Equal(t, oursBefore, ours)
	assert.Equal(t, theirsBefore, theirs)
}
