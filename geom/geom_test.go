package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointToSquare(t *testing.T) {
	s := PointToSquare(10, 20, 5)

	assert.True(t, s.IsAxisAligned())
	minX, minY, maxX, maxY := s.AxisAlignedBox()
	assert.Equal(t, 5.0, minX)
	assert.Equal(t, 15.0, minY)
	assert.Equal(t, 15.0, maxX)
	assert.Equal(t, 25.0, maxY)
}

func TestLineToSquare(t *testing.T) {
	s := LineToSquare(0, 0, 10, 4, 2)

	minX, minY, maxX, maxY := s.AxisAlignedBox()
	assert.Equal(t, -2.0, minX)
	assert.Equal(t, -2.0, minY)
	assert.Equal(t, 12.0, maxX)
	assert.Equal(t, 6.0, maxY)
	assert.True(t, s.IsAxisAligned())
}

func TestCurveToSquareCoversMidpoint(t *testing.T) {
	p0, cp, p1 := Point{0, 0}, Point{5, 10}, Point{10, 0}
	s := CurveToSquare(p0.X, p0.Y, cp.X, cp.Y, p1.X, p1.Y, 1)

	mid := QuadraticPoint(0.5, p0, cp, p1)
	assert.True(t, s.ContainsPoint(mid.X, mid.Y))
	assert.True(t, s.ContainsPoint(p0.X, p0.Y))
	assert.True(t, s.ContainsPoint(p1.X, p1.Y))
}

func TestSelfLoopEnvelope(t *testing.T) {
	const size = 2.0
	s := SelfLoopToSquare(0, 0, size)
	c1, c2 := SelfLoopControlPoints(0, 0, size)

	// Control points sit at size*7 from the center.
	assert.Equal(t, Point{-14, -14}, c1)
	assert.Equal(t, Point{14, -14}, c2)

	// The cubic stays inside the convex hull of its control polygon, so
	// sampling the full parameter range must stay inside the envelope.
	p0 := Point{0, 0}
	for ti := 0.0; ti <= 1.0; ti += 0.05 {
		p := CubicPoint(ti, p0, c1, c2, p0)
		assert.True(t, s.ContainsPoint(p.X, p.Y), "t=%v point %+v outside envelope", ti, p)
	}

	// The node's own disc is covered too.
	assert.True(t, s.ContainsPoint(size, size))
	assert.True(t, s.ContainsPoint(-size, -size))
}

func TestAlignedOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Square
		want bool
	}{
		{"overlapping", AlignedSquare(0, 0, 10, 10), AlignedSquare(5, 5, 15, 15), true},
		{"contained", AlignedSquare(0, 0, 10, 10), AlignedSquare(2, 2, 4, 4), true},
		{"disjoint", AlignedSquare(0, 0, 10, 10), AlignedSquare(20, 20, 30, 30), false},
		{"touching edge", AlignedSquare(0, 0, 10, 10), AlignedSquare(10, 0, 20, 10), true},
		{"touching corner", AlignedSquare(0, 0, 10, 10), AlignedSquare(10, 10, 20, 20), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlignedOverlap(tt.a, tt.b))
			assert.Equal(t, tt.want, Collide(tt.a, tt.b))
		})
	}
}

func TestCollideRotated(t *testing.T) {
	// A quad rotated 45 degrees with top edge (0,0)-(2,2).
	rotated := Square{X1: 0, Y1: 0, X2: 2, Y2: 2, Height: 1}

	assert.True(t, Collide(rotated, AlignedSquare(0, 0, 1, 1)))
	assert.False(t, Collide(rotated, AlignedSquare(5, 5, 6, 6)))
	assert.False(t, Collide(rotated, AlignedSquare(-5, -5, -4, -4)))
}

func TestCornersAxisAligned(t *testing.T) {
	s := AlignedSquare(1, 2, 5, 8)
	c := s.Corners()
	assert.Equal(t, Point{1, 2}, c[0])
	assert.Equal(t, Point{5, 2}, c[1])
	assert.Equal(t, Point{1, 8}, c[2])
	assert.Equal(t, Point{5, 8}, c[3])
}

func TestIsPointOnSegment(t *testing.T) {
	tests := []struct {
		name    string
		px, py  float64
		epsilon float64
		want    bool
	}{
		{"on segment", 5, 0, 0.1, true},
		{"near segment", 5, 0.5, 1, true},
		{"at exact tolerance", 5, 1, 1, true},
		{"too far", 5, 2, 1, false},
		{"beyond endpoint", 12, 0, 1, false},
		{"at endpoint", 10, 0, 0.1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPointOnSegment(tt.px, tt.py, 0, 0, 10, 0, tt.epsilon)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsPointOnSegmentDegenerate(t *testing.T) {
	assert.True(t, IsPointOnSegment(1, 1, 1, 1, 1, 1, 0.1))
	assert.False(t, IsPointOnSegment(3, 3, 1, 1, 1, 1, 0.1))
}

func TestIsPointOnQuadraticCurve(t *testing.T) {
	p0, cp, p1 := Point{0, 0}, Point{5, 10}, Point{10, 0}

	// The apex at t=0.5 is (5, 5).
	assert.True(t, IsPointOnQuadraticCurve(Point{5, 5}, p0, cp, p1, 0.01))
	// Points on the curve away from the initial sample.
	onCurve := QuadraticPoint(0.2, p0, cp, p1)
	assert.True(t, IsPointOnQuadraticCurve(onCurve, p0, cp, p1, 0.05))
	// Well off the curve.
	assert.False(t, IsPointOnQuadraticCurve(Point{5, 8}, p0, cp, p1, 0.5))
	assert.False(t, IsPointOnQuadraticCurve(Point{-3, -3}, p0, cp, p1, 0.5))
}

func TestIsPointOnCubicCurve(t *testing.T) {
	p0, p1 := Point{0, 0}, Point{0, 0}
	c1, c2 := SelfLoopControlPoints(0, 0, 1)

	apex := CubicPoint(0.5, p0, c1, c2, p1)
	assert.True(t, IsPointOnCubicCurve(apex, p0, c1, c2, p1, 0.01))
	assert.False(t, IsPointOnCubicCurve(Point{0, -20}, p0, c1, c2, p1, 0.5))
}

func TestMatrixTransform(t *testing.T) {
	m := Translate(3, 4)
	p := m.Transform(Point{1, 1})
	assert.Equal(t, Point{4, 5}, p)

	r := Rotate(math.Pi / 2)
	p = r.Transform(Point{1, 0})
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Multiply applies the receiver first, then the argument.
	m := Translate(1, 0).Multiply(Scale(2, 2))
	p := m.Transform(Point{0, 0})
	assert.Equal(t, Point{2, 0}, p)
}

func TestMatrixInverseRoundTrip(t *testing.T) {
	m := Translate(-3, 7).
		Multiply(Rotate(0.7)).
		Multiply(Scale(2.5, 2.5))
	inv, err := m.Inverse()
	require.NoError(t, err)

	orig := Point{12.5, -4.25}
	back := inv.Transform(m.Transform(orig))
	assert.InDelta(t, orig.X, back.X, 1e-9)
	assert.InDelta(t, orig.Y, back.Y, 1e-9)
}

func TestMatrixInverseSingular(t *testing.T) {
	_, err := Scale(0, 0).Inverse()
	assert.Error(t, err)
}
