package modeldiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemata-hq/schemata-server/pkg/model"
)

func sampleDoc() model.Document {
	return model.Document{
		Entities: []model.Entity{
			{Name: "Customer", Attrs: []model.Attr{
				{Name: "id", Type: "uuid", PK: true},
				{Name: "name", Type: "text"},
			}},
			{Name: "Order", Stereotype: "aggregate", Attrs: []model.Attr{
				{Name: "id", Type: "uuid", PK: true},
				{Name: "total", Type: "numeric"},
			}},
		},
		Relations: []model.Relation{
			{From: "Order", To: "Customer", Kind: model.KindAssociation, FromCard: "*", ToCard: "1"},
		},
	}
}

func TestDiff_SelfIsEmpty(t *testing.T) {
	doc := sampleDoc()
	rep := Diff(doc, doc)

	assert.True(t, rep.Empty())
	assert.Empty(t, rep.Entities.Added)
	assert.Empty(t, rep.Entities.Removed)
	assert.Empty(t, rep.Entities.Changed)
	assert.Empty(t, rep.Relations.Added)
	assert.Empty(t, rep.Relations.Removed)
	assert.Empty(t, rep.Relations.Changed)
}

func TestDiff_Deterministic(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Entities = append(to.Entities, model.Entity{Name: "Invoice"}, model.Entity{Name: "Payment"})

	first := Diff(from, to)
	second := Diff(from, to)
	assert.Equal(t, first, second)

	// Added entities come out sorted by name regardless of input order.
	require.Len(t, first.Entities.Added, 2)
	assert.Equal(t, "Invoice", first.Entities.Added[0].Name)
	assert.Equal(t, "Payment", first.Entities.Added[1].Name)
}

func TestDiff_EntityAddedRemoved(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Entities = to.Entities[:1] // drop Order
	to.Entities = append(to.Entities, model.Entity{Name: "Shipment"})

	rep := Diff(from, to)

	require.Len(t, rep.Entities.Added, 1)
	assert.Equal(t, "Shipment", rep.Entities.Added[0].Name)
	require.Len(t, rep.Entities.Removed, 1)
	assert.Equal(t, "Order", rep.Entities.Removed[0].Name)
	assert.Empty(t, rep.Entities.Changed)
}

func TestDiff_Antisymmetry(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Entities = append(to.Entities[:1], model.Entity{Name: "Shipment"})
	to.Relations = nil

	ab := Diff(from, to)
	ba := Diff(to, from)

	assert.Equal(t, ab.Entities.Added, ba.Entities.Removed)
	assert.Equal(t, ab.Entities.Removed, ba.Entities.Added)
	assert.Equal(t, ab.Relations.Added, ba.Relations.Removed)
	assert.Equal(t, ab.Relations.Removed, ba.Relations.Added)
}

func TestDiff_AttributeChanges(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()

	// Change a type, add an attribute, remove an attribute on Customer.
	to.Entities[0].Attrs = []model.Attr{
		{Name: "id", Type: "bigint", PK: true},
		{Name: "email", Type: "text", Unique: true},
	}

	rep := Diff(from, to)

	require.Len(t, rep.Entities.Changed, 1)
	ec := rep.Entities.Changed[0]
	assert.Equal(t, "Customer", ec.Name)
	assert.False(t, ec.StereoChanged)

	require.Len(t, ec.AttrsAdded, 1)
	assert.Equal(t, "email", ec.AttrsAdded[0].Name)
	require.Len(t, ec.AttrsRemoved, 1)
	assert.Equal(t, "name", ec.AttrsRemoved[0].Name)
	require.Len(t, ec.AttrsChanged, 1)
	assert.Equal(t, "uuid", ec.AttrsChanged[0].From.Type)
	assert.Equal(t, "bigint", ec.AttrsChanged[0].To.Type)
}

func TestDiff_FlagOnlyAttributeChange(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Entities[0].Attrs[1].Nullable = true // name text -> nullable

	rep := Diff(from, to)

	require.Len(t, rep.Entities.Changed, 1)
	require.Len(t, rep.Entities.Changed[0].AttrsChanged, 1)
	assert.Equal(t, "name", rep.Entities.Changed[0].AttrsChanged[0].Name)
}

func TestDiff_StereotypeChange(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Entities[1].Stereotype = "entity"

	rep := Diff(from, to)

	require.Len(t, rep.Entities.Changed, 1)
	ec := rep.Entities.Changed[0]
	assert.Equal(t, "Order", ec.Name)
	assert.True(t, ec.StereoChanged)
	assert.Equal(t, "aggregate", ec.FromStereo)
	assert.Equal(t, "entity", ec.ToStereo)
	assert.Empty(t, ec.AttrsChanged)
}

func TestDiff_RelationChanges(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Relations = []model.Relation{
		{From: "Order", To: "Customer", Kind: model.KindComposition, FromCard: "*", ToCard: "1"},
		{From: "Order", To: "Shipment", Kind: model.KindAssociation},
	}

	rep := Diff(from, to)

	require.Len(t, rep.Relations.Added, 1)
	assert.Equal(t, "Shipment", rep.Relations.Added[0].To)
	assert.Empty(t, rep.Relations.Removed)
	require.Len(t, rep.Relations.Changed, 1)
	assert.Equal(t, model.KindAssociation, rep.Relations.Changed[0].From.Kind)
	assert.Equal(t, model.KindComposition, rep.Relations.Changed[0].To.Kind)
}

func TestDiff_RelationCardinalityChange(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Relations[0].ToCard = "0..1"

	rep := Diff(from, to)

	require.Len(t, rep.Relations.Changed, 1)
	assert.Equal(t, "1", rep.Relations.Changed[0].From.ToCard)
	assert.Equal(t, "0..1", rep.Relations.Changed[0].To.ToCard)
}

func TestDiff_KindChangeOnSamePairIsChangeNotAddRemove(t *testing.T) {
	// Relation identity is the ordered pair; a kind flip shows up as a
	// change, never as a remove+add.
	from := model.Document{Relations: []model.Relation{
		{From: "A", To: "B", Kind: model.KindAssociation},
	}}
	to := model.Document{Relations: []model.Relation{
		{From: "A", To: "B", Kind: model.KindGeneralization},
	}}

	rep := Diff(from, to)

	assert.Empty(t, rep.Relations.Added)
	assert.Empty(t, rep.Relations.Removed)
	require.Len(t, rep.Relations.Changed, 1)
}

func TestDiff_InputsNotMutated(t *testing.T) {
	from := sampleDoc()
	to := sampleDoc()
	to.Entities[0].Attrs[0].Type = "bigint"

	fromBefore := from.Clone()
	toBefore := to.Clone()

	_ = Diff(from, to)

	assert.Equal(t, fromBefore, from)
	assert.Equal(t, toBefore, to)
}
