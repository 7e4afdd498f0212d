package scene

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/TFMV/graphlens/camera"
	"github.com/TFMV/graphlens/geom"
	"github.com/TFMV/graphlens/models"
)

// ErrEdgeIndexDisabled is returned by EdgesAt when edge hovering is off,
// either explicitly or because the active renderer draws edges without
// per-element geometry.
var ErrEdgeIndexDisabled = errors.New("scene: edge index disabled")

// HitTester resolves pointer coordinates to graph elements. It requires the
// resolver to have refreshed its indexes and the camera to have run
// ApplyView for the same viewport, so the camera's view stamps are current.
type HitTester struct {
	res *Resolver
}

// NewHitTester creates a hit-tester over a resolver's indexes.
func NewHitTester(res *Resolver) *HitTester {
	return &HitTester{res: res}
}

// NodesAt returns the non-hidden nodes whose screen-space disc contains the
// given screen point, largest first; equal sizes order by id so repeated
// calls return the same ordering. The quadtree leaf over-approximates, so
// every candidate passes a bounding-box check and an exact
// distance-to-center test before inclusion.
func (h *HitTester) NodesAt(screenX, screenY float64) []*models.Node {
	gx, gy := h.res.cam.ScreenToGraph(screenX-h.res.width/2, screenY-h.res.height/2)

	var hits []*models.Node
	for _, id := range h.res.nodeIndex.PointQuery(gx, gy) {
		n, err := h.res.graph.NodeByID(id)
		if err != nil || n.Hidden {
			continue
		}
		nv, ok := h.res.cam.NodeView(n.ID)
		if !ok {
			continue
		}
		dx, dy := screenX-nv.X, screenY-nv.Y
		if math.Abs(dx) > nv.Size || math.Abs(dy) > nv.Size {
			continue
		}
		if math.Hypot(dx, dy) > nv.Size {
			continue
		}
		hits = append(hits, n)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Size != hits[j].Size {
			return hits[i].Size > hits[j].Size
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}

// EdgesAt returns the non-hidden edges under the given screen point,
// largest first with the same id tie-break as NodesAt. The edge index must
// be enabled. Candidates from the index pass the exact segment or curve
// test with tolerance max(edge thickness, hover precision); a candidate is
// excluded when the cursor sits within an endpoint's own radius, so clicks
// near a node resolve to the node rather than its incident edges.
func (h *HitTester) EdgesAt(screenX, screenY float64) ([]*models.Edge, error) {
	if h.res.edgeIndex == nil {
		return nil, errors.Wrap(ErrEdgeIndexDisabled, "edges at point")
	}
	gx, gy := h.res.cam.ScreenToGraph(screenX-h.res.width/2, screenY-h.res.height/2)

	var hits []*models.Edge
	for _, id := range h.res.edgeIndex.PointQuery(gx, gy) {
		e, err := h.res.graph.EdgeByID(id)
		if err != nil || e.Hidden {
			continue
		}
		src, errS := h.res.graph.NodeByID(e.Source)
		tgt, errT := h.res.graph.NodeByID(e.Target)
		if errS != nil || errT != nil || src.Hidden || tgt.Hidden {
			continue
		}
		srcView, okS := h.res.cam.NodeView(src.ID)
		tgtView, okT := h.res.cam.NodeView(tgt.ID)
		ev, okE := h.res.cam.EdgeView(e.ID)
		if !okS || !okT || !okE {
			continue
		}
		if math.Hypot(screenX-srcView.X, screenY-srcView.Y) <= srcView.Size ||
			math.Hypot(screenX-tgtView.X, screenY-tgtView.Y) <= tgtView.Size {
			continue
		}
		tolerance := math.Max(ev.Size, h.res.settings.EdgeHoverPrecision)
		if h.hitsEdge(e, ev, srcView, screenX, screenY, tolerance) {
			hits = append(hits, e)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Size != hits[j].Size {
			return hits[i].Size > hits[j].Size
		}
		return hits[i].ID < hits[j].ID
	})
	return hits, nil
}

// hitsEdge runs the exact screen-space geometry test for one edge shape.
func (h *HitTester) hitsEdge(e *models.Edge, ev camera.EdgeView, src camera.NodeView, x, y, tolerance float64) bool {
	p := geom.Point{X: x, Y: y}
	p1 := geom.Point{X: ev.X1, Y: ev.Y1}
	p2 := geom.Point{X: ev.X2, Y: ev.Y2}
	switch e.Shape {
	case models.ShapeLine, models.ShapeArrowLine:
		return geom.IsPointOnSegment(x, y, p1.X, p1.Y, p2.X, p2.Y, tolerance)
	case models.ShapeQuadraticCurve, models.ShapeArrowCurve:
		cp := quadraticControlPoint(p1.X, p1.Y, p2.X, p2.Y)
		return geom.IsPointOnQuadraticCurve(p, p1, cp, p2, tolerance)
	case models.ShapeCubicSelfLoop:
		c1, c2 := geom.SelfLoopControlPoints(src.X, src.Y, src.Size)
		return geom.IsPointOnCubicCurve(p, p1, c1, c2, p2, tolerance)
	}
	return false
}
