package verlet

import "github.com/san-kum/verlet/internal/geom"

// DefaultRadius is the hit and draw radius of points placed by hand.
const DefaultRadius = 10.0

// Point is a point mass. Prev is meaningful only once HasPrev is set by the
// first integration.
type Point struct {
	Pos     geom.Vec2
	Prev    geom.Vec2
	HasPrev bool
	Locked  bool
	Radius  float64
}

func NewPoint(pos geom.Vec2, locked bool) Point {
	return Point{Pos: pos, Locked: locked, Radius: DefaultRadius}
}

// Integrate advances the point by its implied velocity plus one gravity
// impulse. dt is accepted for symmetry with the step driver and is unused.
func (p *Point) Integrate(_ float64, gravity geom.Vec2) {
	if p.Locked {
		return
	}

	before := p.Pos

	if p.HasPrev {
		p.Pos = p.Pos.Add(p.Pos.Sub(p.Prev))
	}
	p.Pos = p.Pos.Add(gravity)

	p.Prev = before
	p.HasPrev = true
}

// Velocity is the displacement covered by the last integration.
func (p *Point) Velocity() geom.Vec2 {
	if !p.HasPrev {
		return geom.Vec2{}
	}
	return p.Pos.Sub(p.Prev)
}

// Contains reports whether pos is within the point's radius.
func (p *Point) Contains(pos geom.Vec2) bool {
	return p.Pos.Dist(pos) <= p.Radius
}
