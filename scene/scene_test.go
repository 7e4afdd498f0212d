package scene

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/graphlens/camera"
	"github.com/TFMV/graphlens/config"
	"github.com/TFMV/graphlens/models"
)

func addNode(t *testing.T, g *models.Graph, id string, x, y, size float64) *models.Node {
	t.Helper()
	n := models.NewNode(id)
	n.ID = id
	n.X = x
	n.Y = y
	n.Size = size
	require.NoError(t, g.AddNode(n))
	return n
}

func addEdge(t *testing.T, g *models.Graph, id, source, target string) *models.Edge {
	t.Helper()
	e := models.NewEdge(source, target)
	e.ID = id
	require.NoError(t, g.AddEdge(e))
	return e
}

func TestRefreshEmptyGraph(t *testing.T) {
	g := models.NewGraph("empty")
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())

	require.NoError(t, res.Refresh(100, 100))
	assert.Empty(t, res.VisibleNodes())
	assert.Empty(t, res.VisibleEdges())
}

func TestRefreshSingleNode(t *testing.T) {
	g := models.NewGraph("single")
	addNode(t, g, "only", 5, 5, 2)
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())

	// A single point still produces indexable bounds via the margin.
	require.NoError(t, res.Refresh(100, 100))
	assert.Equal(t, 1, res.NodeIndex().Stats().Builds)
}

func TestVisibleNodes(t *testing.T) {
	g := models.NewGraph("vis")
	addNode(t, g, "near", 0, 0, 2)
	addNode(t, g, "edge-of-view", 70, 0, 2)
	addNode(t, g, "far", 1000, 1000, 2)
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	require.NoError(t, res.Refresh(100, 100))

	// Viewport 100x100 at ratio 1 covers graph [-75, 75] with the margin.
	ids := []string{}
	for _, n := range res.VisibleNodes() {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"near", "edge-of-view"}, ids)
}

func TestVisibleNodesExcludesHidden(t *testing.T) {
	g := models.NewGraph("vis")
	addNode(t, g, "shown", 0, 0, 2)
	ghost := addNode(t, g, "ghost", 5, 5, 2)
	ghost.Hidden = true

	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	require.NoError(t, res.Refresh(100, 100))

	visible := res.VisibleNodes()
	require.Len(t, visible, 1)
	assert.Equal(t, "shown", visible[0].ID)
}

func TestRefreshRejectsNaNCoordinates(t *testing.T) {
	g := models.NewGraph("nan")
	addNode(t, g, "ok", 0, 0, 2)
	bad := addNode(t, g, "bad", 10, 0, 2)
	bad.X = math.NaN()

	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())

	err := res.Refresh(100, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, camera.ErrInvalidCoordinate))
}

func TestVisibleNodesTrackCamera(t *testing.T) {
	g := models.NewGraph("vis")
	addNode(t, g, "a", 0, 0, 2)
	addNode(t, g, "b", 1000, 1000, 2)
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	require.NoError(t, res.Refresh(100, 100))

	require.Len(t, res.VisibleNodes(), 1)

	// Panning the camera needs no re-index; the next query sees the move.
	require.NoError(t, cam.GoTo(camera.Move{
		X: camera.Float(1000), Y: camera.Float(1000),
	}))
	visible := res.VisibleNodes()
	require.Len(t, visible, 1)
	assert.Equal(t, "b", visible[0].ID)
}

func TestVisibleEdges(t *testing.T) {
	g := models.NewGraph("edges")
	addNode(t, g, "a", 0, 0, 2)
	addNode(t, g, "b", 10, 0, 2)
	addNode(t, g, "c", 1000, 1000, 2)
	addNode(t, g, "d", 1000, 990, 2)
	addEdge(t, g, "ab", "a", "b")
	addEdge(t, g, "bc", "b", "c")
	addEdge(t, g, "cd", "c", "d")
	hidden := addEdge(t, g, "ab-hidden", "a", "b")
	hidden.Hidden = true

	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	require.NoError(t, res.Refresh(100, 100))

	ids := []string{}
	for _, e := range res.VisibleEdges() {
		ids = append(ids, e.ID)
	}
	// One on-screen endpoint suffices; both off-screen excludes; hidden
	// edges are never visible.
	assert.ElementsMatch(t, []string{"ab", "bc"}, ids)
}

func TestVisibleEdgesHiddenEndpoint(t *testing.T) {
	g := models.NewGraph("edges")
	a := addNode(t, g, "a", 0, 0, 2)
	addNode(t, g, "b", 10, 0, 2)
	addEdge(t, g, "ab", "a", "b")
	a.Hidden = true

	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	require.NoError(t, res.Refresh(100, 100))

	assert.Empty(t, res.VisibleEdges())
}

func refreshAndApply(t *testing.T, res *Resolver, width, height float64) {
	t.Helper()
	require.NoError(t, res.Refresh(width, height))
	res.Camera().ApplyView(res.Graph().Nodes(), res.Graph().Edges(), width, height)
}

func TestNodesAt(t *testing.T) {
	g := models.NewGraph("hits")
	addNode(t, g, "a", 0, 0, 5)
	addNode(t, g, "off", 30, 30, 5)
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	refreshAndApply(t, res, 100, 100)

	ht := NewHitTester(res)

	// Node "a" projects to screen (50, 50) with radius 5.
	hits := ht.NodesAt(50, 50)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)

	// Inside the disc diagonally.
	hits = ht.NodesAt(52, 52)
	require.Len(t, hits, 1)

	// Outside the disc but inside the bounding box corner.
	assert.Empty(t, ht.NodesAt(54.5, 54.5))
	// Outside entirely.
	assert.Empty(t, ht.NodesAt(70, 50))
}

func TestNodesAtSkipsHidden(t *testing.T) {
	g := models.NewGraph("hits")
	n := addNode(t, g, "a", 0, 0, 5)
	n.Hidden = true
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	refreshAndApply(t, res, 100, 100)

	assert.Empty(t, NewHitTester(res).NodesAt(50, 50))
}

func TestNodesAtOrdering(t *testing.T) {
	g := models.NewGraph("hits")
	addNode(t, g, "b", 0, 0, 5)
	addNode(t, g, "big", 0, 0, 8)
	addNode(t, g, "d", 0, 0, 5)
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())
	refreshAndApply(t, res, 100, 100)

	ht := NewHitTester(res)
	// Largest first; equal sizes break ties by id, so repeated calls agree.
	for i := 0; i < 3; i++ {
		hits := ht.NodesAt(50, 50)
		require.Len(t, hits, 3)
		assert.Equal(t, "big", hits[0].ID)
		assert.Equal(t, "b", hits[1].ID)
		assert.Equal(t, "d", hits[2].ID)
	}
}

func TestEdgesAtDisabledByDefault(t *testing.T) {
	g := models.NewGraph("hits")
	cam := camera.New(config.Default())
	res := NewResolver(g, cam, config.Default())

	_, err := NewHitTester(res).EdgesAt(0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEdgeIndexDisabled))
}

func edgeHoverSettings() config.Settings {
	hovering := true
	return config.Resolve(config.Default(), config.Overrides{
		EnableEdgeHovering: &hovering,
	})
}

func TestEdgesAt(t *testing.T) {
	settings := edgeHoverSettings()
	g := models.NewGraph("hits")
	addNode(t, g, "a", -20, 0, 2)
	addNode(t, g, "b", 20, 0, 2)
	addEdge(t, g, "ab", "a", "b")

	cam := camera.New(settings)
	res := NewResolver(g, cam, settings)
	refreshAndApply(t, res, 200, 200)
	ht := NewHitTester(res)

	// Midpoint of the segment, well clear of both endpoint discs.
	hits, err := ht.EdgesAt(100, 100)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "ab", hits[0].ID)

	// Slightly off the segment, still within hover precision.
	hits, err = ht.EdgesAt(100, 100.5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	// Too far from the segment.
	hits, err = ht.EdgesAt(100, 110)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEdgesAtExcludesEndpointHits(t *testing.T) {
	settings := edgeHoverSettings()
	g := models.NewGraph("hits")
	addNode(t, g, "a", -20, 0, 2)
	addNode(t, g, "b", 20, 0, 2)
	addEdge(t, g, "ab", "a", "b")

	cam := camera.New(settings)
	res := NewResolver(g, cam, settings)
	refreshAndApply(t, res, 200, 200)

	// Cursor inside node a's own radius resolves to the node, not the edge.
	hits, err := NewHitTester(res).EdgesAt(80, 100)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEdgesAtSelfLoop(t *testing.T) {
	settings := edgeHoverSettings()
	g := models.NewGraph("hits")
	addNode(t, g, "a", 0, 0, 2)
	addEdge(t, g, "loop", "a", "a")

	cam := camera.New(settings)
	res := NewResolver(g, cam, settings)
	refreshAndApply(t, res, 200, 200)

	// The loop's apex sits above the node at 3/4 of the control height:
	// control points are at (±14, -14) in graph space, apex y = -10.5,
	// which projects to screen (100, 89.5).
	hits, err := NewHitTester(res).EdgesAt(100, 89.5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "loop", hits[0].ID)
}

func TestEdgesAtSkipsHiddenEndpoints(t *testing.T) {
	settings := edgeHoverSettings()
	g := models.NewGraph("hits")
	a := addNode(t, g, "a", -20, 0, 2)
	addNode(t, g, "b", 20, 0, 2)
	addEdge(t, g, "ab", "a", "b")
	a.Hidden = true

	cam := camera.New(settings)
	res := NewResolver(g, cam, settings)
	refreshAndApply(t, res, 200, 200)

	hits, err := NewHitTester(res).EdgesAt(100, 100)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
