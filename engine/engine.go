// Package engine owns the instances of a graphlens deployment: the graph
// arena, its cameras, and the resolver and hit-tester attached to each
// camera. The registry is an explicit object owned by the engine; there is
// no process-wide instance state.
package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/cockroachdb/errors"

	"github.com/TFMV/graphlens/camera"
	"github.com/TFMV/graphlens/config"
	"github.com/TFMV/graphlens/logger"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/scene"
)

// ErrUnknownCamera is returned for lookups of camera ids not in the
// registry.
var ErrUnknownCamera = errors.New("engine: unknown camera")

// viewpoint bundles everything whose lifetime is tied to one camera.
type viewpoint struct {
	cam       *camera.Camera
	resolver  *scene.Resolver
	hitTester *scene.HitTester
}

// Engine is the top-level orchestrator. It is single-threaded like the rest
// of the core; callers needing concurrent access serialize at their own
// boundary.
type Engine struct {
	graph    *models.Graph
	settings config.Settings
	animator *camera.Animator
	log      *zap.SugaredLogger

	viewpoints map[string]*viewpoint
}

// New creates an engine around an externally owned graph.
func New(graph *models.Graph, settings config.Settings) *Engine {
	return &Engine{
		graph:      graph,
		settings:   settings,
		animator:   camera.NewAnimator(),
		log:        logger.Named("engine"),
		viewpoints: make(map[string]*viewpoint),
	}
}

// Graph returns the graph arena.
func (e *Engine) Graph() *models.Graph {
	return e.graph
}

// Settings returns the engine's global settings layer.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Animator returns the shared tween driver.
func (e *Engine) Animator() *camera.Animator {
	return e.animator
}

// AddCamera creates a camera with per-camera setting overrides resolved
// over the engine's globals, attaches a resolver and hit-tester to it, and
// registers the bundle under the camera id.
func (e *Engine) AddCamera(overrides config.Overrides) *camera.Camera {
	settings := config.Resolve(e.settings, overrides)
	cam := camera.New(settings)
	resolver := scene.NewResolver(e.graph, cam, settings)
	e.viewpoints[cam.ID] = &viewpoint{
		cam:       cam,
		resolver:  resolver,
		hitTester: scene.NewHitTester(resolver),
	}
	e.log.Debugw("camera added", "camera", cam.ID)
	return cam
}

// Camera returns a registered camera by id.
func (e *Engine) Camera(id string) (*camera.Camera, error) {
	vp, ok := e.viewpoints[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCamera, "%q", id)
	}
	return vp.cam, nil
}

// Resolver returns the resolver attached to a camera.
func (e *Engine) Resolver(cameraID string) (*scene.Resolver, error) {
	vp, ok := e.viewpoints[cameraID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCamera, "%q", cameraID)
	}
	return vp.resolver, nil
}

// HitTester returns the hit-tester attached to a camera.
func (e *Engine) HitTester(cameraID string) (*scene.HitTester, error) {
	vp, ok := e.viewpoints[cameraID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCamera, "%q", cameraID)
	}
	return vp.hitTester, nil
}

// KillCamera destroys a camera, cascading to its animations, resolver,
// hit-tester and spatial indexes. Killing an unknown camera is an error.
func (e *Engine) KillCamera(id string) error {
	vp, ok := e.viewpoints[id]
	if !ok {
		return errors.Wrapf(ErrUnknownCamera, "%q", id)
	}
	e.animator.CancelCamera(vp.cam)
	delete(e.viewpoints, id)
	e.log.Debugw("camera killed", "camera", id)
	return nil
}

// Cameras returns the ids of all registered cameras, sorted.
func (e *Engine) Cameras() []string {
	ids := make([]string, 0, len(e.viewpoints))
	for id := range e.viewpoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Refresh re-indexes every camera's resolver for the given viewport and
// re-applies each camera's view, in camera-id order so repeated calls walk
// the registry the same way. Each camera stamps its own view maps, so the
// per-camera projections coexist. Call it when the graph's logical content
// or the viewport size changes.
func (e *Engine) Refresh(width, height float64) error {
	for _, id := range e.Cameras() {
		vp := e.viewpoints[id]
		if err := vp.resolver.Refresh(width, height); err != nil {
			return errors.Wrapf(err, "refresh camera %q", id)
		}
		vp.cam.ApplyView(e.graph.Nodes(), e.graph.Edges(), width, height)
	}
	return nil
}
