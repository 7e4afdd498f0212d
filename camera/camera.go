// Package camera maintains a 2D affine viewpoint onto a graph (pan, zoom
// and rotation) and the coordinate transforms between graph space and
// screen space that every renderer and hit test goes through.
package camera

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/TFMV/graphlens/config"
)

// ErrInvalidCoordinate is returned when a GoTo call supplies a non-finite
// value, or a non-positive ratio. The whole call is rejected and the camera
// state is unchanged.
var ErrInvalidCoordinate = errors.New("camera: invalid coordinate")

// State is a complete view state snapshot.
type State struct {
	X     float64
	Y     float64
	Ratio float64
	Angle float64
}

// Move is a partial view state: nil fields keep their current value.
type Move struct {
	X     *float64
	Y     *float64
	Ratio *float64
	Angle *float64
}

// Listener is notified synchronously after every state change.
type Listener func(State)

// Camera is a lens onto an externally owned graph. It does not own node or
// edge data; ApplyView stamps derived screen coordinates into the camera's
// own view maps, so any number of cameras project the same graph without
// overwriting each other. All methods are frame-synchronous: no locking, no
// deferred updates.
type Camera struct {
	ID string

	x     float64
	y     float64
	ratio float64
	angle float64

	settings  config.Settings
	listeners []Listener

	// Replaced wholesale by every ApplyView pass.
	nodeViews map[string]NodeView
	edgeViews map[string]EdgeView

	// True while a tween is driving this camera; cleared on completion
	// or cancellation.
	animated bool
}

// New creates a camera at the origin with ratio 1.
func New(settings config.Settings) *Camera {
	return &Camera{
		ID:       uuid.New().String(),
		ratio:    1,
		settings: settings,
	}
}

// State returns the current view state.
func (c *Camera) State() State {
	return State{X: c.x, Y: c.y, Ratio: c.ratio, Angle: c.angle}
}

// Settings returns the camera's resolved settings.
func (c *Camera) Settings() config.Settings {
	return c.settings
}

// IsAnimated reports whether a tween currently drives this camera.
func (c *Camera) IsAnimated() bool {
	return c.animated
}

// OnCoordinatesUpdated registers a listener invoked synchronously, before
// GoTo returns, after every state change.
func (c *Camera) OnCoordinatesUpdated(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// GoTo applies a partial state change. Every provided field is validated
// before any is applied: a non-finite value, or a ratio <= 0, rejects the
// whole call.
func (c *Camera) GoTo(move Move) error {
	for name, v := range map[string]*float64{
		"x": move.X, "y": move.Y, "ratio": move.Ratio, "angle": move.Angle,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return errors.Wrapf(ErrInvalidCoordinate, "%s = %v", name, *v)
		}
	}
	if move.Ratio != nil && *move.Ratio <= 0 {
		return errors.Wrapf(ErrInvalidCoordinate, "ratio = %v", *move.Ratio)
	}

	if move.X != nil {
		c.x = *move.X
	}
	if move.Y != nil {
		c.y = *move.Y
	}
	if move.Ratio != nil {
		c.ratio = *move.Ratio
	}
	if move.Angle != nil {
		c.angle = *move.Angle
	}

	state := c.State()
	for _, fn := range c.listeners {
		fn(state)
	}
	return nil
}

// Float is a convenience for building Move values.
func Float(v float64) *float64 { return &v }
