package scene

import (
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/TFMV/graphlens/camera"
	"github.com/TFMV/graphlens/config"
	"github.com/TFMV/graphlens/geom"
	"github.com/TFMV/graphlens/logger"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/quadtree"
)

// Resolver computes the visible node and edge sets for one camera. Indexing
// runs when the graph's logical content or the viewport size changes, not
// on pan or zoom, which only move the camera and re-run ApplyView against
// the existing index.
type Resolver struct {
	graph    *models.Graph
	cam      *camera.Camera
	settings config.Settings
	log      *zap.SugaredLogger

	nodeIndex *quadtree.Tree
	edgeIndex *quadtree.Tree
	width     float64
	height    float64
}

// NewResolver creates a resolver binding a graph, a camera and resolved
// settings. The spatial indexes are owned by the resolver (one camera, one
// resolver, one index set) and die with it.
func NewResolver(graph *models.Graph, cam *camera.Camera, settings config.Settings) *Resolver {
	r := &Resolver{
		graph:    graph,
		cam:      cam,
		settings: settings,
		log:      logger.Named("scene"),
		nodeIndex: quadtree.New(
			settings.NodeQuadMaxElements, settings.NodeQuadMaxLevel,
		),
	}
	if settings.EnableEdgeHovering {
		r.edgeIndex = quadtree.New(
			settings.EdgeQuadMaxElements, settings.EdgeQuadMaxLevel,
		)
	}
	return r
}

// Camera returns the camera the resolver is bound to.
func (r *Resolver) Camera() *camera.Camera {
	return r.cam
}

// Graph returns the graph the resolver reads from.
func (r *Resolver) Graph() *models.Graph {
	return r.graph
}

// NodeIndex exposes the node quadtree for instrumentation.
func (r *Resolver) NodeIndex() *quadtree.Tree {
	return r.nodeIndex
}

// Refresh recomputes graph-space boundaries in one linear scan and rebuilds
// the node index, then the edge index when edge hovering is enabled (in
// that order, always). The previous trees and their query caches are
// discarded. An empty graph clears the working sets without indexing.
func (r *Resolver) Refresh(width, height float64) error {
	r.width, r.height = width, height

	nodes := r.graph.Nodes()
	if len(nodes) == 0 {
		r.nodeIndex = quadtree.New(r.settings.NodeQuadMaxElements, r.settings.NodeQuadMaxLevel)
		if r.edgeIndex != nil {
			r.edgeIndex = quadtree.New(r.settings.EdgeQuadMaxElements, r.settings.EdgeQuadMaxLevel)
		}
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	maxSize := 0.0
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X)
		minY = math.Min(minY, n.Y)
		maxY = math.Max(maxY, n.Y)
		maxSize = math.Max(maxSize, n.Size)
	}
	// A NaN or infinite node coordinate is bad caller input, not a
	// missing-bounds condition; classify it before the index sees the
	// degenerate rectangle it would produce.
	for _, v := range [4]float64{minX, minY, maxX, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(camera.ErrInvalidCoordinate,
				"graph bounds (%v, %v)-(%v, %v)", minX, minY, maxX, maxY)
		}
	}
	if r.edgeIndex != nil {
		for _, e := range r.graph.Edges() {
			maxSize = math.Max(maxSize, e.Size)
		}
	}
	// Self-loop control points reach size*7 beyond the node center; the
	// margin keeps every bounding shape inside the indexed bounds and
	// makes degenerate (single-point) graphs indexable.
	margin := math.Max(maxSize*(geom.SelfLoopControlScale+1), 1)
	bounds := geom.AlignedSquare(minX-margin, minY-margin, maxX+margin, maxY+margin)

	elements := make([]quadtree.Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, nodeElement(n))
	}
	if err := r.nodeIndex.Index(elements, bounds); err != nil {
		return err
	}

	if r.edgeIndex != nil {
		edges := r.graph.Edges()
		edgeElements := make([]quadtree.Element, 0, len(edges))
		for _, e := range edges {
			src, errS := r.graph.NodeByID(e.Source)
			tgt, errT := r.graph.NodeByID(e.Target)
			if errS != nil || errT != nil {
				continue
			}
			edgeElements = append(edgeElements, edgeElement(e, src, tgt))
		}
		if err := r.edgeIndex.Index(edgeElements, bounds); err != nil {
			return err
		}
	}

	r.log.Debugw("reindexed",
		"nodes", len(nodes),
		"edge_hovering", r.edgeIndex != nil,
		"bounds", bounds,
	)
	return nil
}

// VisibleNodes returns the non-hidden nodes whose bounding shape intersects
// the camera's margin-inflated viewport rectangle, by an area query against
// the node index. Hidden nodes are filtered here so every renderer agrees
// on the drawable set. Identical consecutive queries hit the quadtree
// cache.
func (r *Resolver) VisibleNodes() []*models.Node {
	rect := r.cam.VisibleRectangle(r.width, r.height)
	ids := r.nodeIndex.AreaQuery(rect)
	result := make([]*models.Node, 0, len(ids))
	for _, id := range ids {
		if n, err := r.graph.NodeByID(id); err == nil && !n.Hidden {
			result = append(result, n)
		}
	}
	return result
}

// VisibleEdges derives the on-screen edge set from the visible nodes:
// exactly the edges with at least one endpoint on screen, where the edge is
// not hidden and neither endpoint is hidden.
func (r *Resolver) VisibleEdges() []*models.Edge {
	onScreen := make(map[string]bool)
	for _, n := range r.VisibleNodes() {
		onScreen[n.ID] = true
	}

	var result []*models.Edge
	for _, e := range r.graph.Edges() {
		if e.Hidden {
			continue
		}
		if !onScreen[e.Source] && !onScreen[e.Target] {
			continue
		}
		src, errS := r.graph.NodeByID(e.Source)
		tgt, errT := r.graph.NodeByID(e.Target)
		if errS != nil || errT != nil {
			continue
		}
		if src.Hidden || tgt.Hidden {
			continue
		}
		result = append(result, e)
	}
	return result
}
