// Package models provides the core domain types for graphlens: nodes, edges
// and the graph arena they live in. The graph owns its elements; cameras and
// spatial indexes only hold ids into it.
package models

import (
	"time"
)

// EdgeShape is the closed set of renderable edge geometries. The geometry
// kernel switches exhaustively over these; there is no string-keyed fallback.
type EdgeShape int

const (
	// ShapeLine is a straight segment between the endpoints.
	ShapeLine EdgeShape = iota
	// ShapeQuadraticCurve bends the edge through a single control point.
	ShapeQuadraticCurve
	// ShapeCubicSelfLoop is the loop drawn when source == target.
	ShapeCubicSelfLoop
	// ShapeArrowLine is a straight segment with an arrow head.
	ShapeArrowLine
	// ShapeArrowCurve is a quadratic curve with an arrow head.
	ShapeArrowCurve
)

// String returns the shape tag used in JSON and logs.
func (s EdgeShape) String() string {
	switch s {
	case ShapeLine:
		return "line"
	case ShapeQuadraticCurve:
		return "curve"
	case ShapeCubicSelfLoop:
		return "selfloop"
	case ShapeArrowLine:
		return "arrow"
	case ShapeArrowCurve:
		return "curvedArrow"
	}
	return "line"
}

// ParseEdgeShape maps a shape tag back to its variant. Unknown tags fall back
// to ShapeLine, matching the wire format's default-renderer behavior.
func ParseEdgeShape(tag string) EdgeShape {
	switch tag {
	case "curve":
		return ShapeQuadraticCurve
	case "selfloop":
		return ShapeCubicSelfLoop
	case "arrow":
		return ShapeArrowLine
	case "curvedArrow":
		return ShapeArrowCurve
	}
	return ShapeLine
}

// Node represents a node in the graph. X/Y/Size live in graph space; screen
// projections are derived per camera by Camera.ApplyView and owned by the
// camera, never stored here.
type Node struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       string         `json:"type,omitempty"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Size       float64        `json:"size"`
	Color      string         `json:"color,omitempty"`
	Hidden     bool           `json:"hidden,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Edge represents a directed edge between two nodes. Source and Target must
// reference nodes present in the same graph; self-loops (Source == Target)
// are allowed. Size is the thickness in graph space.
type Edge struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Shape      EdgeShape      `json:"-"`
	ShapeTag   string         `json:"shape,omitempty"`
	Size       float64        `json:"size"`
	Color      string         `json:"color,omitempty"`
	Hidden     bool           `json:"hidden,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Graph is the arena owning all nodes and edges. It is shared-read by every
// camera and renderer and mutated only through its own operations, which are
// synchronous and not safe to call reentrantly from an index rebuild.
type Graph struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	nodes     []*Node
	edges     []*Edge
	nodeByID  map[string]*Node
	edgeByID  map[string]*Edge
	incident  map[string][]string // node id -> incident edge ids
}
