package camera

import (
	"math"

	"github.com/TFMV/graphlens/geom"
	"github.com/TFMV/graphlens/models"
)

// GraphToScreen maps a graph-space point into camera space: translate to the
// camera origin, rotate by the camera angle, scale by 1/ratio. The result is
// centered on the camera; ApplyView adds the half-viewport offset.
func (c *Camera) GraphToScreen(x, y float64) (float64, float64) {
	cos, sin := math.Cos(c.angle), math.Sin(c.angle)
	dx, dy := x-c.x, y-c.y
	return (dx*cos + dy*sin) / c.ratio, (-dx*sin + dy*cos) / c.ratio
}

// ScreenToGraph is the exact inverse of GraphToScreen.
func (c *Camera) ScreenToGraph(x, y float64) (float64, float64) {
	cos, sin := math.Cos(c.angle), math.Sin(c.angle)
	rx, ry := x*c.ratio, y*c.ratio
	return rx*cos - ry*sin + c.x, rx*sin + ry*cos + c.y
}

// GraphToScreenVector transforms a direction vector (e.g. a drag delta),
// omitting the translation component.
func (c *Camera) GraphToScreenVector(x, y float64) (float64, float64) {
	cos, sin := math.Cos(c.angle), math.Sin(c.angle)
	return (x*cos + y*sin) / c.ratio, (-x*sin + y*cos) / c.ratio
}

// ScreenToGraphVector is the inverse vector transform.
func (c *Camera) ScreenToGraphVector(x, y float64) (float64, float64) {
	cos, sin := math.Cos(c.angle), math.Sin(c.angle)
	rx, ry := x*c.ratio, y*c.ratio
	return rx*cos - ry*sin, rx*sin + ry*cos
}

// TransformMatrix returns the combined translate∘rotate∘scale matrix
// equivalent to GraphToScreen, for consumers that work in matrix form (a
// GPU renderer uploads this instead of transforming per element).
func (c *Camera) TransformMatrix() geom.Matrix {
	return geom.Translate(-c.x, -c.y).
		Multiply(geom.Rotate(-c.angle)).
		Multiply(geom.Scale(1/c.ratio, 1/c.ratio))
}

// NodeView is one node's projection through a camera: its screen position
// including the half-viewport offset, and its power-law screen size.
type NodeView struct {
	X    float64
	Y    float64
	Size float64
}

// EdgeView is one edge's projection: the endpoints' screen positions and
// the edge's screen thickness.
type EdgeView struct {
	X1   float64
	Y1   float64
	X2   float64
	Y2   float64
	Size float64
}

// ApplyView computes camera-space coordinates and power-law screen sizes
// for every node and edge: screen position is the camera transform plus a
// half-viewport offset, screen size is graph size / ratio^powRatio. The
// results replace the camera's view maps; nodes and edges are never
// written, so concurrent cameras over one graph keep independent stamps.
func (c *Camera) ApplyView(nodes []*models.Node, edges []*models.Edge, width, height float64) {
	halfW, halfH := width/2, height/2
	nodeScale := math.Pow(c.ratio, c.settings.NodesPowRatio)
	edgeScale := math.Pow(c.ratio, c.settings.EdgesPowRatio)

	nodeViews := make(map[string]NodeView, len(nodes))
	for _, n := range nodes {
		sx, sy := c.GraphToScreen(n.X, n.Y)
		nodeViews[n.ID] = NodeView{
			X:    sx + halfW,
			Y:    sy + halfH,
			Size: n.Size / nodeScale,
		}
	}

	edgeViews := make(map[string]EdgeView, len(edges))
	for _, e := range edges {
		src, okS := nodeViews[e.Source]
		tgt, okT := nodeViews[e.Target]
		if !okS || !okT {
			continue
		}
		edgeViews[e.ID] = EdgeView{
			X1:   src.X,
			Y1:   src.Y,
			X2:   tgt.X,
			Y2:   tgt.Y,
			Size: e.Size / edgeScale,
		}
	}

	c.nodeViews = nodeViews
	c.edgeViews = edgeViews
}

// NodeView returns a node's projection from this camera's last ApplyView
// pass. The second result is false for ids not in that pass.
func (c *Camera) NodeView(id string) (NodeView, bool) {
	v, ok := c.nodeViews[id]
	return v, ok
}

// EdgeView returns an edge's projection from this camera's last ApplyView
// pass. Dangling edges are never stamped, so they report false.
func (c *Camera) EdgeView(id string) (EdgeView, bool) {
	v, ok := c.edgeViews[id]
	return v, ok
}

// VisibleRectangle returns, in graph space, the rectangle covering the
// current viewport inflated by a quarter viewport on each side, so
// off-screen-adjacent labels and partially visible elements stay indexed.
// The rectangle is rotated when the camera is; with no rotation it stays
// axis-aligned and the quadtree takes its fast path.
func (c *Camera) VisibleRectangle(width, height float64) geom.Square {
	// Pre-offset camera space spans [-w/2, w/2] x [-h/2, h/2]; the margin
	// widens that to 1.5x the viewport.
	left, top := -width*0.75, -height*0.75
	right := width * 0.75
	x1, y1 := c.ScreenToGraph(left, top)
	x2, y2 := c.ScreenToGraph(right, top)
	return geom.Square{
		X1:     x1,
		Y1:     y1,
		X2:     x2,
		Y2:     y2,
		Height: height * 1.5 * c.ratio,
	}
}
