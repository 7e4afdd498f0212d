// Package scene computes the per-frame working sets: which nodes and edges
// are on screen for a camera (the resolver), and which elements sit under a
// pointer position (the hit-tester). Both lean on the quadtree index and the
// geometry kernel; neither owns graph data.
package scene

import (
	"github.com/TFMV/graphlens/geom"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/quadtree"
)

// nodeElement converts a node into its quadtree entry: a square of side
// 2*size around the center.
func nodeElement(n *models.Node) quadtree.Element {
	return quadtree.Element{
		ID:     n.ID,
		Bounds: geom.PointToSquare(n.X, n.Y, n.Size),
	}
}

// edgeElement converts an edge into its quadtree entry. The switch is
// exhaustive over the shape variants; every case produces a bounding quad
// via the geometry kernel.
func edgeElement(e *models.Edge, src, tgt *models.Node) quadtree.Element {
	var bounds geom.Square
	switch e.Shape {
	case models.ShapeLine, models.ShapeArrowLine:
		bounds = geom.LineToSquare(src.X, src.Y, tgt.X, tgt.Y, e.Size)
	case models.ShapeQuadraticCurve, models.ShapeArrowCurve:
		cp := quadraticControlPoint(src.X, src.Y, tgt.X, tgt.Y)
		bounds = geom.CurveToSquare(src.X, src.Y, cp.X, cp.Y, tgt.X, tgt.Y, e.Size)
	case models.ShapeCubicSelfLoop:
		bounds = geom.SelfLoopToSquare(src.X, src.Y, src.Size)
	}
	return quadtree.Element{ID: e.ID, Bounds: bounds}
}

// quadraticControlPoint places a curve's control point perpendicular to the
// segment midpoint, at a quarter of the segment length.
func quadraticControlPoint(x1, y1, x2, y2 float64) geom.Point {
	return geom.Point{
		X: (x1+x2)/2 + (y2-y1)/4,
		Y: (y1+y2)/2 + (x1-x2)/4,
	}
}
