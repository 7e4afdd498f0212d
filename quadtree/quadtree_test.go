package quadtree

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/graphlens/geom"
)

func TestIndexRejectsDegenerateBounds(t *testing.T) {
	tree := New(20, 4)

	err := tree.Index(nil, geom.AlignedSquare(0, 0, 0, 100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingBounds))

	// Rotated bounds are rejected too.
	err = tree.Index(nil, geom.Square{X1: 0, Y1: 0, X2: 10, Y2: 10, Height: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingBounds))
}

func TestPointQueryDescendsToOccupiedLeaf(t *testing.T) {
	tree := New(20, 2)
	err := tree.Index([]Element{
		{ID: "a", Bounds: geom.PointToSquare(10, 10, 1)},
	}, geom.AlignedSquare(0, 0, 100, 100))
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, tree.PointQuery(10, 10))
	assert.Empty(t, tree.PointQuery(90, 90))
}

func TestPointQueryOutsideBounds(t *testing.T) {
	tree := New(20, 4)
	require.NoError(t, tree.Index([]Element{
		{ID: "a", Bounds: geom.PointToSquare(50, 50, 1)},
	}, geom.AlignedSquare(0, 0, 100, 100)))

	assert.Nil(t, tree.PointQuery(-10, 50))
	assert.Nil(t, tree.PointQuery(50, 200))
}

func TestStraddlingElementSharedAcrossLeaves(t *testing.T) {
	// An element centered on the root midpoint touches all four quadrants.
	tree := New(20, 1)
	require.NoError(t, tree.Index([]Element{
		{ID: "mid", Bounds: geom.PointToSquare(50, 50, 5)},
	}, geom.AlignedSquare(0, 0, 100, 100)))

	assert.Equal(t, []string{"mid"}, tree.PointQuery(25, 25))
	assert.Equal(t, []string{"mid"}, tree.PointQuery(75, 25))
	assert.Equal(t, []string{"mid"}, tree.PointQuery(25, 75))
	assert.Equal(t, []string{"mid"}, tree.PointQuery(75, 75))

	// The shared references deduplicate to a single result.
	ids := tree.AreaQuery(geom.AlignedSquare(0, 0, 100, 100))
	assert.Equal(t, []string{"mid"}, ids)
}

func TestAreaQueryFindsAllIntersecting(t *testing.T) {
	tree := New(4, 3)
	elements := []Element{
		{ID: "nw", Bounds: geom.PointToSquare(10, 10, 2)},
		{ID: "ne", Bounds: geom.PointToSquare(90, 10, 2)},
		{ID: "sw", Bounds: geom.PointToSquare(10, 90, 2)},
		{ID: "se", Bounds: geom.PointToSquare(90, 90, 2)},
	}
	require.NoError(t, tree.Index(elements, geom.AlignedSquare(0, 0, 100, 100)))

	all := tree.AreaQuery(geom.AlignedSquare(0, 0, 100, 100))
	assert.ElementsMatch(t, []string{"nw", "ne", "sw", "se"}, all)

	left := tree.AreaQuery(geom.AlignedSquare(0, 0, 30, 100))
	assert.ElementsMatch(t, []string{"nw", "sw"}, left)
}

func TestAreaQueryNoFalsePositives(t *testing.T) {
	tree := New(4, 2)
	require.NoError(t, tree.Index([]Element{
		{ID: "corner", Bounds: geom.PointToSquare(95, 95, 2)},
	}, geom.AlignedSquare(0, 0, 100, 100)))

	// Query inside the same quadrant but away from the element's bounds.
	ids := tree.AreaQuery(geom.AlignedSquare(55, 55, 60, 60))
	assert.Empty(t, ids)
}

func TestAreaQueryRotatedRect(t *testing.T) {
	tree := New(4, 2)
	require.NoError(t, tree.Index([]Element{
		{ID: "center", Bounds: geom.PointToSquare(50, 50, 3)},
	}, geom.AlignedSquare(0, 0, 100, 100)))

	// A rotated query rectangle crossing the center.
	rotated := geom.Square{X1: 40, Y1: 45, X2: 60, Y2: 55, Height: 10}
	ids := tree.AreaQuery(rotated)
	assert.Equal(t, []string{"center"}, ids)
}

func TestAreaQueryCache(t *testing.T) {
	tree := New(4, 2)
	require.NoError(t, tree.Index([]Element{
		{ID: "a", Bounds: geom.PointToSquare(25, 25, 2)},
	}, geom.AlignedSquare(0, 0, 100, 100)))

	rect := geom.AlignedSquare(0, 0, 50, 50)
	first := tree.AreaQuery(rect)
	second := tree.AreaQuery(rect)
	assert.Equal(t, first, second)

	stats := tree.Stats()
	assert.Equal(t, 1, stats.Traversals)
	assert.Equal(t, 1, stats.CacheHits)

	// Re-indexing invalidates the cache.
	require.NoError(t, tree.Index([]Element{
		{ID: "a", Bounds: geom.PointToSquare(25, 25, 2)},
	}, geom.AlignedSquare(0, 0, 100, 100)))
	tree.AreaQuery(rect)
	stats = tree.Stats()
	assert.Equal(t, 2, stats.Traversals)
	assert.Equal(t, 1, stats.CacheHits)
	assert.Equal(t, 2, stats.Builds)
}

func TestAreaQueryResultIsCallerOwned(t *testing.T) {
	tree := New(4, 2)
	require.NoError(t, tree.Index([]Element{
		{ID: "a", Bounds: geom.PointToSquare(25, 25, 2)},
	}, geom.AlignedSquare(0, 0, 100, 100)))

	rect := geom.AlignedSquare(0, 0, 50, 50)
	first := tree.AreaQuery(rect)
	require.Equal(t, []string{"a"}, first)

	// Mutating a result must not leak into later cache hits.
	first[0] = "mangled"
	_ = append(first, "extra")

	second := tree.AreaQuery(rect)
	assert.Equal(t, []string{"a"}, second)

	second[0] = "mangled"
	third := tree.AreaQuery(rect)
	assert.Equal(t, []string{"a"}, third)
}

func TestIndexReplacesPreviousTree(t *testing.T) {
	tree := New(4, 2)
	require.NoError(t, tree.Index([]Element{
		{ID: "old", Bounds: geom.PointToSquare(10, 10, 2)},
	}, geom.AlignedSquare(0, 0, 100, 100)))
	require.NoError(t, tree.Index([]Element{
		{ID: "new", Bounds: geom.PointToSquare(10, 10, 2)},
	}, geom.AlignedSquare(0, 0, 100, 100)))

	assert.Equal(t, []string{"new"}, tree.PointQuery(10, 10))
}

func TestNewDefaults(t *testing.T) {
	tree := New(0, 0)
	assert.Equal(t, DefaultNodeMaxLevel, tree.MaxLevel())
}
