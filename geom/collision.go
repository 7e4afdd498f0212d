package geom

// AlignedOverlap reports whether two axis-aligned quads overlap, using
// closed-interval tests on both axes. Touching edges count as overlap so a
// boundary-straddling element lands in every leaf it grazes.
func AlignedOverlap(a, b Square) bool {
	aMinX, aMinY, aMaxX, aMaxY := a.AxisAlignedBox()
	bMinX, bMinY, bMaxX, bMaxY := b.AxisAlignedBox()
	return aMinX <= bMaxX && aMaxX >= bMinX &&
		aMinY <= bMaxY && aMaxY >= bMinY
}

// Collide reports whether two potentially rotated quads overlap, via the
// separating-axis theorem over the four axes derived from both quads' edges.
func Collide(a, b Square) bool {
	if a.IsAxisAligned() && b.IsAxisAligned() {
		return AlignedOverlap(a, b)
	}
	ca, cb := a.Corners(), b.Corners()
	axes := [4]Point{
		{ca[1].X - ca[0].X, ca[1].Y - ca[0].Y},
		{ca[2].X - ca[0].X, ca[2].Y - ca[0].Y},
		{cb[1].X - cb[0].X, cb[1].Y - cb[0].Y},
		{cb[2].X - cb[0].X, cb[2].Y - cb[0].Y},
	}
	for _, axis := range axes {
		if axis.X == 0 && axis.Y == 0 {
			continue
		}
		aMin, aMax := project(ca, axis)
		bMin, bMax := project(cb, axis)
		if aMax < bMin || bMax < aMin {
			return false
		}
	}
	return true
}

// project returns the min/max scalar projections of corners onto axis.
func project(corners [4]Point, axis Point) (min, max float64) {
	min = corners[0].X*axis.X + corners[0].Y*axis.Y
	max = min
	for _, c := range corners[1:] {
		d := c.X*axis.X + c.Y*axis.Y
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// ContainsPoint reports whether an axis-aligned quad contains the point.
func (s Square) ContainsPoint(x, y float64) bool {
	minX, minY, maxX, maxY := s.AxisAlignedBox()
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}
