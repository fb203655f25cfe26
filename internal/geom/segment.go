package geom

// SegmentsIntersect reports whether segment a1-a2 crosses segment b1-b2.
//
// Parallel and collinear segments never intersect, even when they overlap.
// Touching at an endpoint counts, since both parameters are tested against
// the closed interval [0, 1].
func SegmentsIntersect(a1, a2, b1, b2 Vec2) bool {
	d := (b2.X-b1.X)*(a1.Y-a2.Y) - (a1.X-a2.X)*(b2.Y-b1.Y)
	if d == 0 {
		return false
	}

	t := ((b1.Y-b2.Y)*(a1.X-b1.X) + (b2.X-b1.X)*(a1.Y-b1.Y)) / d
	u := ((a1.Y-a2.Y)*(a1.X-b1.X) + (a2.X-a1.X)*(a1.Y-b1.Y)) / d

	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}
