package models

import (
	"github.com/cockroachdb/errors"
)

// NodeFilter is a predicate used to filter nodes in queries.
type NodeFilter func(node *Node) bool

// EdgeFilter is a predicate used to filter edges in queries.
type EdgeFilter func(edge *Edge) bool

// Nodes returns the live node slice in insertion order. Callers must not
// mutate the slice; mutating the pointed-to nodes is visible graph-wide.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns the live edge slice in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (*Node, error) {
	if n, ok := g.nodeByID[id]; ok {
		return n, nil
	}
	return nil, errors.Wrapf(ErrNotFound, "node %q", id)
}

// EdgeByID returns the edge with the given id.
func (g *Graph) EdgeByID(id string) (*Edge, error) {
	if e, ok := g.edgeByID[id]; ok {
		return e, nil
	}
	return nil, errors.Wrapf(ErrNotFound, "edge %q", id)
}

// IncidentEdges returns the edges touching a node, as source or target.
func (g *Graph) IncidentEdges(nodeID string) []*Edge {
	ids := g.incident[nodeID]
	result := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if e, ok := g.edgeByID[id]; ok {
			result = append(result, e)
		}
	}
	return result
}

// FilterNodes returns the nodes matching the predicate.
func (g *Graph) FilterNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, n := range g.nodes {
		if filter(n) {
			result = append(result, n)
		}
	}
	return result
}

// FilterEdges returns the edges matching the predicate.
func (g *Graph) FilterEdges(filter EdgeFilter) []*Edge {
	var result []*Edge
	for _, e := range g.edges {
		if filter(e) {
			result = append(result, e)
		}
	}
	return result
}

// Order returns the node count.
func (g *Graph) Order() int { return len(g.nodes) }

// Size returns the edge count.
func (g *Graph) Size() int { return len(g.edges) }
