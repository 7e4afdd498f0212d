package models

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Sentinel errors for graph mutations. Wrapped with element context at the
// call site; check with errors.Is.
var (
	// ErrDuplicateID is returned when a node or edge id already exists in
	// the graph.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownReference is returned when an edge references a node id
	// that is not present in the graph.
	ErrUnknownReference = errors.New("unknown node reference")
	// ErrNotFound is returned by lookups and removals of absent elements.
	ErrNotFound = errors.New("not found")
)

// NewNode creates a node with a generated id and timestamps. Position and
// size start at zero; callers set them before the node is indexed.
func NewNode(label string) *Node {
	now := time.Now()
	return &Node{
		ID:        uuid.New().String(),
		Label:     label,
		Size:      1.0,
		Color:     "#808080",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewEdge creates an edge with a generated id between two node ids. The
// shape defaults to a straight line, or a self-loop when source == target.
func NewEdge(source, target string) *Edge {
	now := time.Now()
	shape := ShapeLine
	if source == target {
		shape = ShapeCubicSelfLoop
	}
	return &Edge{
		ID:        uuid.New().String(),
		Source:    source,
		Target:    target,
		Shape:     shape,
		ShapeTag:  shape.String(),
		Size:      1.0,
		Color:     "#666666",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewGraph creates an empty graph arena.
func NewGraph(name string) *Graph {
	now := time.Now()
	return &Graph{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		nodeByID:  make(map[string]*Node),
		edgeByID:  make(map[string]*Edge),
		incident:  make(map[string][]string),
	}
}

// SetPosition moves a node in graph space.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.UpdatedAt = time.Now()
}

// SetAppearance sets the visual properties of a node.
func (n *Node) SetAppearance(size float64, color string) {
	n.Size = size
	n.Color = color
	n.UpdatedAt = time.Now()
}

// SetShape sets the edge geometry variant and keeps the wire tag in sync.
func (e *Edge) SetShape(shape EdgeShape) {
	e.Shape = shape
	e.ShapeTag = shape.String()
	e.UpdatedAt = time.Now()
}

// AddNode adds a node to the graph. The node id must be unique.
func (g *Graph) AddNode(node *Node) error {
	if _, ok := g.nodeByID[node.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "node %q", node.ID)
	}
	g.nodes = append(g.nodes, node)
	g.nodeByID[node.ID] = node
	g.UpdatedAt = time.Now()
	return nil
}

// AddEdge adds an edge to the graph. Both endpoints must already exist and
// the edge id must be unique. Self-loops are allowed.
func (g *Graph) AddEdge(edge *Edge) error {
	if _, ok := g.edgeByID[edge.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "edge %q", edge.ID)
	}
	if _, ok := g.nodeByID[edge.Source]; !ok {
		return errors.Wrapf(ErrUnknownReference, "edge %q source %q", edge.ID, edge.Source)
	}
	if _, ok := g.nodeByID[edge.Target]; !ok {
		return errors.Wrapf(ErrUnknownReference, "edge %q target %q", edge.ID, edge.Target)
	}
	g.edges = append(g.edges, edge)
	g.edgeByID[edge.ID] = edge
	g.incident[edge.Source] = append(g.incident[edge.Source], edge.ID)
	if edge.Target != edge.Source {
		g.incident[edge.Target] = append(g.incident[edge.Target], edge.ID)
	}
	g.UpdatedAt = time.Now()
	return nil
}

// RemoveNode removes a node and cascades to every incident edge, preserving
// the invariant that no edge references an absent node.
func (g *Graph) RemoveNode(nodeID string) error {
	if _, ok := g.nodeByID[nodeID]; !ok {
		return errors.Wrapf(ErrNotFound, "node %q", nodeID)
	}
	for _, edgeID := range append([]string(nil), g.incident[nodeID]...) {
		// Ignore the not-found case: a self-loop appears once in the
		// incident list but a shared edge may already be gone.
		_ = g.RemoveEdge(edgeID)
	}
	delete(g.incident, nodeID)
	delete(g.nodeByID, nodeID)
	for i, n := range g.nodes {
		if n.ID == nodeID {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
	g.UpdatedAt = time.Now()
	return nil
}

// RemoveEdge removes an edge from the graph.
func (g *Graph) RemoveEdge(edgeID string) error {
	edge, ok := g.edgeByID[edgeID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "edge %q", edgeID)
	}
	delete(g.edgeByID, edgeID)
	g.incident[edge.Source] = removeID(g.incident[edge.Source], edgeID)
	if edge.Target != edge.Source {
		g.incident[edge.Target] = removeID(g.incident[edge.Target], edgeID)
	}
	for i, e := range g.edges {
		if e.ID == edgeID {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			break
		}
	}
	g.UpdatedAt = time.Now()
	return nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
