// Package model holds the structural model produced by an analysis run:
// elements (classes and interfaces), the directed connections between
// them, and the JSON artifact they are persisted as.
package model

import (
	"fmt"
	"sort"
)

// Element is a modeled class or interface declaration.
type Element struct {
	ID   string
	Name string
	Kind ElementKind
}

// Connection is a directed relationship between two elements, referenced
// by ID. The meaning of start and end depends on the kind:
//
//	Extends, Implements: start is the subtype, end the supertype
//	Aggregates:          start is the part, end the owning whole
//	Uses:                start is the user, end the used type
type Connection struct {
	Kind    ConnectionKind
	StartID string
	EndID   string
}

func (c Connection) String() string {
	return fmt.Sprintf("%s(%s, %s)", c.Kind, c.StartID, c.EndID)
}

// Graph owns the element set and connection set of one analysis run.
// Connections can only be added between elements already in the graph.
type Graph struct {
	elements    map[string]Element
	connections map[Connection]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		elements:    make(map[string]Element),
		connections: make(map[Connection]struct{}),
	}
}

// AddElement adds e to the element set.
func (g *Graph) AddElement(e Element) error {
	if !e.Kind.Valid() {
		return &UnknownVariantError{Context: "element", Value: e.Kind.String()}
	}
	if e.ID == "" {
		return fmt.Errorf("element %q has an empty id", e.Name)
	}
	if _, exists := g.elements[e.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateElement, e.ID)
	}
	g.elements[e.ID] = e
	return nil
}

// AddConnection adds c to the connection set. Adding a connection that is
// already present is a no-op.
func (g *Graph) AddConnection(c Connection) error {
	if !c.Kind.Valid() {
		return &UnknownVariantError{Context: "connection", Value: c.Kind.String()}
	}
	if _, ok := g.elements[c.StartID]; !ok {
		return &ReferentialIntegrityError{Connection: c, MissingID: c.StartID}
	}
	if _, ok := g.elements[c.EndID]; !ok {
		return &ReferentialIntegrityError{Connection: c, MissingID: c.EndID}
	}
	g.connections[c] = struct{}{}
	return nil
}

// Merge adds every connection, stopping at the first failure.
func (g *Graph) Merge(conns ...Connection) error {
	for _, c := range conns {
		if err := g.AddConnection(c); err != nil {
			return err
		}
	}
	return nil
}

// Element returns the element with the given ID.
func (g *Graph) Element(id string) (Element, bool) {
	e, ok := g.elements[id]
	return e, ok
}

// HasConnection reports whether c is in the connection set.
func (g *Graph) HasConnection(c Connection) bool {
	_, ok := g.connections[c]
	return ok
}

// Elements returns all elements sorted by name, then ID.
func (g *Graph) Elements() []Element {
	out := make([]Element, 0, len(g.elements))
	for _, e := range g.elements {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Connections returns all connections sorted by kind, start, then end.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, 0, len(g.connections))
	for c := range g.connections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].StartID != out[j].StartID {
			return out[i].StartID < out[j].StartID
		}
		return out[i].EndID < out[j].EndID
	})
	return out
}

// Len returns the number of elements and connections.
func (g *Graph) Len() (elements, connections int) {
	return len(g.elements), len(g.connections)
}

// Equal reports whether both graphs hold the same elements and the same
// connections.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if len(g.elements) != len(other.elements) || len(g.connections) != len(other.connections) {
		return false
	}
	for id, e := range g.elements {
		if o, ok := other.elements[id]; !ok || o != e {
			return false
		}
	}
	for c := range g.connections {
		if _, ok := other.connections[c]; !ok {
			return false
		}
	}
	return true
}

// Stats counts elements and connections per kind.
type Stats struct {
	Elements    map[ElementKind]int
	Connections map[ConnectionKind]int
}

// Stats summarizes the graph.
func (g *Graph) Stats() Stats {
	s := Stats{
		Elements:    make(map[ElementKind]int, len(ElementKinds())),
		Connections: make(map[ConnectionKind]int, len(ConnectionKinds())),
	}
	for _, e := range g.elements {
		s.Elements[e.Kind]++
	}
	for c := range g.connections {
		s.Connections[c.Kind]++
	}
	return s
}
