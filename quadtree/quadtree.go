// Package quadtree implements the spatial index used for visibility and hit
// testing: a lazy 4-way recursive partition over a fixed element snapshot.
// The tree is rebuilt wholesale on each Index call and never updated
// incrementally. It stores element ids plus cached bounding geometry only;
// the graph arena stays the single owner of node and edge data.
package quadtree

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/TFMV/graphlens/geom"
)

// ErrMissingBounds is returned when Index is called with a degenerate
// bounds rectangle. The tree is left untouched.
var ErrMissingBounds = errors.New("quadtree: missing bounds")

// Default leaf capacities and depths. Edges are more numerous and thinner
// than nodes, so their tree partitions finer.
const (
	DefaultNodeMaxElements = 20
	DefaultNodeMaxLevel    = 4
	DefaultEdgeMaxElements = 40
	DefaultEdgeMaxLevel    = 8
)

// Element is an id plus the bounding shape it was indexed under.
type Element struct {
	ID     string
	Bounds geom.Square
}

// Stats carries instrumentation counters for the current tree.
type Stats struct {
	Builds     int // Index calls
	Traversals int // area queries answered by walking the tree
	CacheHits  int // area queries answered from the cache
}

// Tree is a quadtree over a fixed element snapshot. Elements live only at
// the bottom leaves (regions at MaxLevel); interior regions are pure
// partitions. An element straddling a boundary is referenced from every
// bottom leaf it intersects.
type Tree struct {
	maxElements int
	maxLevel    int

	root  *region
	cache map[string][]string
	stats Stats
}

// region is one rectangular partition. Children are created lazily, only
// when an element collides with that quadrant; quadrants no element ever
// reached stay nil.
type region struct {
	bounds   geom.Square
	level    int
	children [4]*region
	elements []Element
}

// New creates an empty tree. MaxElements sizes leaf allocation (recursion is
// bounded by depth, not capacity); maxLevel is the partition depth.
// Non-positive arguments fall back to the node defaults.
func New(maxElements, maxLevel int) *Tree {
	if maxElements <= 0 {
		maxElements = DefaultNodeMaxElements
	}
	if maxLevel <= 0 {
		maxLevel = DefaultNodeMaxLevel
	}
	return &Tree{maxElements: maxElements, maxLevel: maxLevel}
}

// Stats returns the instrumentation counters.
func (t *Tree) Stats() Stats {
	return t.stats
}

// MaxLevel returns the partition depth the tree was built with.
func (t *Tree) MaxLevel() int {
	return t.maxLevel
}

// Index builds a fresh tree over bounds from the element snapshot,
// discarding any previous tree and invalidating the area-query cache.
// Bounds must be a non-degenerate axis-aligned rectangle.
func (t *Tree) Index(elements []Element, bounds geom.Square) error {
	minX, minY, maxX, maxY := bounds.AxisAlignedBox()
	if !bounds.IsAxisAligned() || maxX <= minX || maxY <= minY {
		return errors.Wrapf(ErrMissingBounds, "got %+v", bounds)
	}
	t.root = &region{bounds: geom.AlignedSquare(minX, minY, maxX, maxY)}
	t.cache = make(map[string][]string)
	t.stats.Builds++
	for _, el := range elements {
		t.insert(t.root, el)
	}
	return nil
}

// insert recurses into every quadrant whose rectangle collides with the
// element's bounding shape, subdividing lazily, until the bottom level.
func (t *Tree) insert(r *region, el Element) {
	if r.level >= t.maxLevel {
		if r.elements == nil {
			r.elements = make([]Element, 0, t.maxElements)
		}
		r.elements = append(r.elements, el)
		return
	}
	for q := 0; q < 4; q++ {
		qb := quadrantBounds(r.bounds, q)
		if geom.Collide(el.Bounds, qb) {
			if r.children[q] == nil {
				r.children[q] = &region{bounds: qb, level: r.level + 1}
			}
			t.insert(r.children[q], el)
		}
	}
}

// quadrantBounds returns the bounds of quadrant q (0=NW, 1=NE, 2=SW, 3=SE).
func quadrantBounds(b geom.Square, q int) geom.Square {
	minX, minY, maxX, maxY := b.AxisAlignedBox()
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	switch q {
	case 0:
		return geom.AlignedSquare(minX, minY, midX, midY)
	case 1:
		return geom.AlignedSquare(midX, minY, maxX, midY)
	case 2:
		return geom.AlignedSquare(minX, midY, midX, maxY)
	default:
		return geom.AlignedSquare(midX, midY, maxX, maxY)
	}
}

// PointQuery descends by midpoint comparison to the bottom leaf containing
// (x, y) and returns that leaf's element ids. A single point needs no
// collision test on the way down. A path through an unallocated child, or a
// point outside the indexed bounds, yields an empty result.
func (t *Tree) PointQuery(x, y float64) []string {
	if t.root == nil {
		return nil
	}
	minX, minY, maxX, maxY := t.root.bounds.AxisAlignedBox()
	if x < minX || x > maxX || y < minY || y > maxY {
		return nil
	}
	r := t.root
	for r.level < t.maxLevel {
		rMinX, rMinY, rMaxX, rMaxY := r.bounds.AxisAlignedBox()
		midX, midY := (rMinX+rMaxX)/2, (rMinY+rMaxY)/2
		q := 0
		if x >= midX {
			q++
		}
		if y >= midY {
			q += 2
		}
		if r.children[q] == nil {
			return nil
		}
		r = r.children[q]
	}
	ids := make([]string, 0, len(r.elements))
	for _, el := range r.elements {
		ids = append(ids, el.ID)
	}
	return ids
}

// AreaQuery returns the ids of all elements whose bounding shape collides
// with rect, deduplicated, in first-encounter order. Axis-aligned rects use
// interval-overlap tests per quadrant; rotated rects fall back to the
// separating-axis test. Results are cached by the serialized rectangle until
// the next Index call; the returned slice is a copy the caller may mutate
// without corrupting later cache hits.
func (t *Tree) AreaQuery(rect geom.Square) []string {
	if t.root == nil {
		return nil
	}
	key := cacheKey(rect)
	if cached, ok := t.cache[key]; ok {
		t.stats.CacheHits++
		return append([]string(nil), cached...)
	}
	t.stats.Traversals++
	seen := make(map[string]bool)
	ids := []string{}
	t.collect(t.root, rect, seen, &ids)
	t.cache[key] = ids
	return append([]string(nil), ids...)
}

func (t *Tree) collect(r *region, rect geom.Square, seen map[string]bool, ids *[]string) {
	if r.level >= t.maxLevel {
		for _, el := range r.elements {
			if seen[el.ID] || !geom.Collide(el.Bounds, rect) {
				continue
			}
			seen[el.ID] = true
			*ids = append(*ids, el.ID)
		}
		return
	}
	for q := 0; q < 4; q++ {
		child := r.children[q]
		if child == nil {
			continue
		}
		if geom.Collide(rect, child.bounds) {
			t.collect(child, rect, seen, ids)
		}
	}
}

// cacheKey serializes the exact query rectangle. Byte-identical rectangles
// share a key; anything else re-traverses.
func cacheKey(rect geom.Square) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v:%v:%v:%v", rect.X1, rect.Y1, rect.X2, rect.Y2, rect.Height)
	return b.String()
}
