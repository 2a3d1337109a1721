package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *Graph {
	t.Helper()

	g := NewGraph()
	require.NoError(t, g.AddElement(Element{ID: "a", Name: "Animal", Kind: ElementInterface}))
	require.NoError(t, g.AddElement(Element{ID: "d", Name: "Dog", Kind: ElementClass}))
	require.NoError(t, g.AddElement(Element{ID: "b", Name: "Bone", Kind: ElementClass}))
	require.NoError(t, g.Merge(
		Connection{Kind: Implements, StartID: "d", EndID: "a"},
		Connection{Kind: Aggregates, StartID: "b", EndID: "d"},
		Connection{Kind: Uses, StartID: "d", EndID: "b"},
	))
	return g
}

func TestGraph_AddElement(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddElement(Element{ID: "1", Name: "Car", Kind: ElementClass}))

	err := g.AddElement(Element{ID: "1", Name: "Other", Kind: ElementClass})
	assert.ErrorIs(t, err, ErrDuplicateElement)

	err = g.AddElement(Element{ID: "2", Name: "Broken", Kind: ElementKind(42)})
	assert.ErrorIs(t, err, ErrUnknownVariant)

	err = g.AddElement(Element{Name: "NoID", Kind: ElementClass})
	assert.Error(t, err)

	e, ok := g.Element("1")
	require.True(t, ok)
	assert.Equal(t, "Car", e.Name)
}

func TestGraph_AddConnection(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddElement(Element{ID: "car", Name: "Car", Kind: ElementClass}))
	require.NoError(t, g.AddElement(Element{ID: "engine", Name: "Engine", Kind: ElementClass}))

	t.Run("duplicates collapse", func(t *testing.T) {
		c := Connection{Kind: Aggregates, StartID: "engine", EndID: "car"}
		require.NoError(t, g.AddConnection(c))
		require.NoError(t, g.AddConnection(c))

		_, conns := g.Len()
		assert.Equal(t, 1, conns)
		assert.True(t, g.HasConnection(c))
	})

	t.Run("self reference is kept", func(t *testing.T) {
		c := Connection{Kind: Uses, StartID: "car", EndID: "car"}
		require.NoError(t, g.AddConnection(c))
		assert.True(t, g.HasConnection(c))
	})

	t.Run("dangling endpoint", func(t *testing.T) {
		err := g.AddConnection(Connection{Kind: Uses, StartID: "car", EndID: "ghost"})
		require.ErrorIs(t, err, ErrReferentialIntegrity)

		var rie *ReferentialIntegrityError
		require.True(t, errors.As(err, &rie))
		assert.Equal(t, "ghost", rie.MissingID)
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := g.AddConnection(Connection{Kind: ConnectionKind(0), StartID: "car", EndID: "engine"})
		assert.ErrorIs(t, err, ErrUnknownVariant)
	})
}

func TestGraph_Ordering(t *testing.T) {
	g := sampleGraph(t)

	names := make([]string, 0)
	for _, e := range g.Elements() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Animal", "Bone", "Dog"}, names)

	kinds := make([]ConnectionKind, 0)
	for _, c := range g.Connections() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []ConnectionKind{Implements, Aggregates, Uses}, kinds)
}

func TestGraph_Equal(t *testing.T) {
	a := sampleGraph(t)
	b := sampleGraph(t)
	assert.True(t, a.Equal(b))

	require.NoError(t, b.AddConnection(Connection{Kind: Uses, StartID: "d", EndID: "a"}))
	assert.False(t, a.Equal(b))

	var nilGraph *Graph
	assert.False(t, a.Equal(nilGraph))
	assert.True(t, nilGraph.Equal(nil))
}

func TestGraph_Stats(t *testing.T) {
	s := sampleGraph(t).Stats()

	assert.Equal(t, 2, s.Elements[ElementClass])
	assert.Equal(t, 1, s.Elements[ElementInterface])
	assert.Equal(t, 1, s.Connections[Implements])
	assert.Equal(t, 0, s.Connections[Extends])
}

func TestKinds_Discriminators(t *testing.T) {
	for _, k := range ElementKinds() {
		parsed, err := ParseElementKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	for _, k := range ConnectionKinds() {
		parsed, err := ParseConnectionKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseElementKind("enum")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = ParseConnectionKind("com.example.ExtendsConnection")
	var uve *UnknownVariantError
	require.True(t, errors.As(err, &uve))
	assert.Equal(t, "connection", uve.Context)
}
