// Package geom is the stateless geometry kernel: bounding-shape construction
// for graph elements, rectangle collision (axis-aligned and rotated), and
// precise point-on-segment / point-on-curve tests.
//
// Bounding quads use a "top edge plus height" convention: the two corners
// (X1,Y1)-(X2,Y2) form the top edge and the height extends along its
// perpendicular. Axis-aligned quads keep Y1 == Y2, which the quadtree uses
// to pick its fast interval-overlap path.
package geom

import (
	"math"
)

// SelfLoopControlScale is the distance of a self-loop's control points from
// the node center, expressed as a multiple of the node size.
const SelfLoopControlScale = 7.0

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// Square is a bounding quad: top edge (X1,Y1)-(X2,Y2) plus Height along the
// top edge's perpendicular.
type Square struct {
	X1     float64
	Y1     float64
	X2     float64
	Y2     float64
	Height float64
}

// IsAxisAligned reports whether the quad's top edge is horizontal, i.e. the
// quad is an axis-aligned rectangle.
func (s Square) IsAxisAligned() bool {
	return s.Y1 == s.Y2
}

// Corners returns the four corners, top edge first then bottom edge, both
// left to right.
func (s Square) Corners() [4]Point {
	dx, dy := s.X2-s.X1, s.Y2-s.Y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return [4]Point{{s.X1, s.Y1}, {s.X2, s.Y2}, {s.X1, s.Y1 + s.Height}, {s.X2, s.Y2 + s.Height}}
	}
	// Perpendicular of the top edge, oriented so that an axis-aligned quad
	// extends downward (y grows toward the bottom of the viewport).
	px, py := -dy/length*s.Height, dx/length*s.Height
	return [4]Point{
		{s.X1, s.Y1},
		{s.X2, s.Y2},
		{s.X1 + px, s.Y1 + py},
		{s.X2 + px, s.Y2 + py},
	}
}

// AxisAlignedBox returns the axis-aligned bounding box of the quad's corners
// as min/max intervals.
func (s Square) AxisAlignedBox() (minX, minY, maxX, maxY float64) {
	corners := s.Corners()
	minX, maxX = corners[0].X, corners[0].X
	minY, maxY = corners[0].Y, corners[0].Y
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		maxX = math.Max(maxX, c.X)
		minY = math.Min(minY, c.Y)
		maxY = math.Max(maxY, c.Y)
	}
	return minX, minY, maxX, maxY
}

// AlignedSquare builds an axis-aligned quad from min/max intervals.
func AlignedSquare(minX, minY, maxX, maxY float64) Square {
	return Square{X1: minX, Y1: minY, X2: maxX, Y2: minY, Height: maxY - minY}
}

// PointToSquare returns the axis-aligned bounding square of a disc with
// center (cx, cy) and radius r. The side is 2r.
func PointToSquare(cx, cy, r float64) Square {
	return Square{
		X1:     cx - r,
		Y1:     cy - r,
		X2:     cx + r,
		Y2:     cy - r,
		Height: 2 * r,
	}
}

// LineToSquare returns the minimal axis-aligned bounding box of the segment
// (x1,y1)-(x2,y2) inflated by thickness on every side. The topmost/leftmost
// endpoint determines the corner ordering, so the returned quad's top edge
// convention matches the rest of the kernel.
func LineToSquare(x1, y1, x2, y2, thickness float64) Square {
	minX := math.Min(x1, x2) - thickness
	maxX := math.Max(x1, x2) + thickness
	minY := math.Min(y1, y2) - thickness
	maxY := math.Max(y1, y2) + thickness
	return AlignedSquare(minX, minY, maxX, maxY)
}

// CurveToSquare returns the bounding box of a quadratic curve's endpoints
// plus its midpoint (t = 0.5), inflated by thickness. True curve extrema may
// exceed the sampled midpoint; the approximation only decides quadtree
// membership and the precise point-on-curve test removes false hits.
func CurveToSquare(x1, y1, cpx, cpy, x2, y2, thickness float64) Square {
	mid := QuadraticPoint(0.5, Point{x1, y1}, Point{cpx, cpy}, Point{x2, y2})
	minX := math.Min(math.Min(x1, x2), mid.X) - thickness
	maxX := math.Max(math.Max(x1, x2), mid.X) + thickness
	minY := math.Min(math.Min(y1, y2), mid.Y) - thickness
	maxY := math.Max(math.Max(y1, y2), mid.Y) + thickness
	return AlignedSquare(minX, minY, maxX, maxY)
}

// SelfLoopControlPoints returns the two cubic control points of a self-loop
// anchored at (x, y), at distance size*SelfLoopControlScale from the center.
func SelfLoopControlPoints(x, y, size float64) (Point, Point) {
	d := size * SelfLoopControlScale
	return Point{X: x - d, Y: y - d}, Point{X: x + d, Y: y - d}
}

// SelfLoopToSquare returns the bounding box of a self-loop: the node center
// and both control points, inflated by size.
func SelfLoopToSquare(x, y, size float64) Square {
	c1, c2 := SelfLoopControlPoints(x, y, size)
	minX := math.Min(math.Min(c1.X, c2.X), x) - size
	maxX := math.Max(math.Max(c1.X, c2.X), x) + size
	minY := math.Min(math.Min(c1.Y, c2.Y), y) - size
	maxY := math.Max(math.Max(c1.Y, c2.Y), y) + size
	return AlignedSquare(minX, minY, maxX, maxY)
}
