package verlet

import "github.com/san-kum/verlet/internal/geom"

// Link is a distance constraint between two points of the same arena.
// Dead links stay in the arena but take no further part in relaxation or
// drawing.
type Link struct {
	A, B int
	Rest float64
	Dead bool
}

// Relax moves the unlocked endpoints so that they sit Rest apart around
// their common midpoint. Coincident endpoints have no direction to push
// along and are left as they are for this pass.
func (l *Link) Relax(points []Point) {
	if l.Dead {
		return
	}

	a, b := &points[l.A], &points[l.B]
	if a.Locked && b.Locked {
		return
	}

	dir, ok := a.Pos.Sub(b.Pos).Normalize()
	if !ok {
		return
	}

	center := a.Pos.Mid(b.Pos)
	half := dir.Scale(l.Rest / 2)

	if !a.Locked {
		a.Pos = center.Add(half)
	}
	if !b.Locked {
		b.Pos = center.Sub(half)
	}
}

// Length is the current distance between the endpoints.
func (l *Link) Length(points []Point) float64 {
	return points[l.A].Pos.Dist(points[l.B].Pos)
}

// Segment returns the endpoint positions.
func (l *Link) Segment(points []Point) (geom.Vec2, geom.Vec2) {
	return points[l.A].Pos, points[l.B].Pos
}
