package camera

import (
	"time"

	"github.com/google/uuid"

	"github.com/TFMV/graphlens/logger"
)

// Easing maps normalized time [0,1] to normalized progress [0,1].
type Easing func(t float64) float64

// EaseLinear is constant-speed interpolation.
func EaseLinear(t float64) float64 { return t }

// EaseQuadInOut accelerates through the first half and decelerates through
// the second.
func EaseQuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// tween interpolates one camera from a start state to a target state over a
// fixed duration.
type tween struct {
	id       string
	cam      *Camera
	from     State
	to       State
	duration time.Duration
	elapsed  time.Duration
	easing   Easing
	onDone   func()
}

// Animator drives camera tweens as discrete frame steps: each Step call is
// a complete, non-reentrant advance of every active tween. There are no
// blocking waits; the caller schedules Step once per display frame.
type Animator struct {
	tweens map[string]*tween
	order  []string
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{tweens: make(map[string]*tween)}
}

// Animate starts a tween moving cam to the target partial state over the
// given duration, returning the animation id. onDone, if non-nil, fires on
// completion, whether natural or cancelled; the signal does not distinguish
// the two. A nil easing means quadratic in/out.
func (a *Animator) Animate(cam *Camera, target Move, duration time.Duration, easing Easing, onDone func()) string {
	if easing == nil {
		easing = EaseQuadInOut
	}
	from := cam.State()
	to := from
	if target.X != nil {
		to.X = *target.X
	}
	if target.Y != nil {
		to.Y = *target.Y
	}
	if target.Ratio != nil {
		to.Ratio = *target.Ratio
	}
	if target.Angle != nil {
		to.Angle = *target.Angle
	}

	tw := &tween{
		id:       uuid.New().String(),
		cam:      cam,
		from:     from,
		to:       to,
		duration: duration,
		easing:   easing,
		onDone:   onDone,
	}
	cam.animated = true
	a.tweens[tw.id] = tw
	a.order = append(a.order, tw.id)
	return tw.id
}

// Step advances every active tween by dt. Finished tweens land exactly on
// their target state and fire their completion callback.
func (a *Animator) Step(dt time.Duration) {
	remaining := a.order[:0]
	for _, id := range a.order {
		tw, ok := a.tweens[id]
		if !ok {
			continue
		}
		tw.elapsed += dt
		if tw.elapsed >= tw.duration || tw.duration <= 0 {
			a.finish(tw)
			continue
		}
		t := tw.easing(float64(tw.elapsed) / float64(tw.duration))
		state := State{
			X:     lerp(tw.from.X, tw.to.X, t),
			Y:     lerp(tw.from.Y, tw.to.Y, t),
			Ratio: lerp(tw.from.Ratio, tw.to.Ratio, t),
			Angle: lerp(tw.from.Angle, tw.to.Angle, t),
		}
		if err := tw.cam.GoTo(Move{
			X: &state.X, Y: &state.Y, Ratio: &state.Ratio, Angle: &state.Angle,
		}); err != nil {
			logger.Logger.Warnw("tween step rejected", "animation", tw.id, "error", err)
			a.finish(tw)
			continue
		}
		remaining = append(remaining, id)
	}
	a.order = remaining
}

// Cancel stops the animation with the given id, firing the same completion
// notification as natural completion. Unknown ids are ignored.
func (a *Animator) Cancel(id string) {
	if tw, ok := a.tweens[id]; ok {
		a.finish(tw)
	}
}

// CancelCamera cancels every animation targeting the given camera.
func (a *Animator) CancelCamera(cam *Camera) {
	for _, id := range append([]string(nil), a.order...) {
		if tw, ok := a.tweens[id]; ok && tw.cam == cam {
			a.finish(tw)
		}
	}
}

// Active returns the number of running animations.
func (a *Animator) Active() int {
	return len(a.tweens)
}

func (a *Animator) finish(tw *tween) {
	delete(a.tweens, tw.id)
	tw.cam.animated = a.hasTweenFor(tw.cam)
	if err := tw.cam.GoTo(Move{
		X: &tw.to.X, Y: &tw.to.Y, Ratio: &tw.to.Ratio, Angle: &tw.to.Angle,
	}); err != nil {
		logger.Logger.Warnw("tween target rejected", "animation", tw.id, "error", err)
	}
	if tw.onDone != nil {
		tw.onDone()
	}
}

func (a *Animator) hasTweenFor(cam *Camera) bool {
	for _, tw := range a.tweens {
		if tw.cam == cam {
			return true
		}
	}
	return false
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
