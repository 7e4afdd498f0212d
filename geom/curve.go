package geom

import (
	"math"
)

// curveRefineIterations caps the point-on-curve refinement loop. The cap is
// the termination contract: the test is reproducible and always terminates,
// it is not a global-minimum guarantee for pathological curves.
const curveRefineIterations = 100

// curveRefineMinStep stops refinement once the parameter step shrinks below
// this relative threshold.
const curveRefineMinStep = 0.001

// QuadraticPoint evaluates a quadratic Bezier at parameter t.
func QuadraticPoint(t float64, p0, cp, p1 Point) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*cp.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*cp.Y + t*t*p1.Y,
	}
}

// CubicPoint evaluates a cubic Bezier at parameter t.
func CubicPoint(t float64, p0, c1, c2, p1 Point) Point {
	u := 1 - t
	return Point{
		X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
		Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// IsPointOnSegment reports whether (px, py) lies within epsilon of the
// segment (x1,y1)-(x2,y2), by perpendicular distance clamped to the
// segment's parameter interval.
func IsPointOnSegment(px, py, x1, y1, x2, y2, epsilon float64) bool {
	dx, dy := x2-x1, y2-y1
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(px-x1, py-y1) <= epsilon
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	cx, cy := x1+t*dx, y1+t*dy
	return math.Hypot(px-cx, py-cy) <= epsilon
}

// IsPointOnQuadraticCurve reports whether the point lies within epsilon of
// the quadratic curve, by iterative step-halving refinement from t = 0.5.
func IsPointOnQuadraticCurve(p, p0, cp, p1 Point, epsilon float64) bool {
	return refineOnCurve(p, epsilon, func(t float64) Point {
		return QuadraticPoint(t, p0, cp, p1)
	})
}

// IsPointOnCubicCurve reports whether the point lies within epsilon of the
// cubic curve, by the same refinement scheme as the quadratic test.
func IsPointOnCubicCurve(p, p0, c1, c2, p1 Point, epsilon float64) bool {
	return refineOnCurve(p, epsilon, func(t float64) Point {
		return CubicPoint(t, p0, c1, c2, p1)
	})
}

// refineOnCurve walks the curve parameter from t = 0.5, moving toward
// whichever neighbor sample is closer to the target and halving the step
// when neither improves. Terminates at curveRefineIterations or when the
// step drops below curveRefineMinStep.
func refineOnCurve(p Point, epsilon float64, sample func(t float64) Point) bool {
	t, step := 0.5, 0.25
	dist := Distance(p, sample(t))
	for i := 0; i < curveRefineIterations; i++ {
		if dist <= epsilon {
			return true
		}
		lt := math.Max(0, t-step)
		rt := math.Min(1, t+step)
		dl := Distance(p, sample(lt))
		dr := Distance(p, sample(rt))
		switch {
		case dl < dist && dl <= dr:
			t, dist = lt, dl
		case dr < dist:
			t, dist = rt, dr
		default:
			step /= 2
			if step < curveRefineMinStep {
				return dist <= epsilon
			}
		}
	}
	return dist <= epsilon
}
