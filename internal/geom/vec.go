package geom

import "math"

// Vec2 is a 2D vector in screen coordinates (y grows downward).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Div(s float64) Vec2   { return Vec2{a.X / s, a.Y / s} }

func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

func (a Vec2) Len() float64 { return math.Hypot(a.X, a.Y) }

// LenSq skips the square root.
func (a Vec2) LenSq() float64 { return a.X*a.X + a.Y*a.Y }

func (a Vec2) Dist(b Vec2) float64 { return a.Sub(b).Len() }

// Mid returns the midpoint of a and b.
func (a Vec2) Mid(b Vec2) Vec2 { return Vec2{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }

// Normalize returns the unit vector in the direction of a. The boolean is
// false for the zero vector, in which case the zero vector is returned.
func (a Vec2) Normalize() (Vec2, bool) {
	l := a.Len()
	if l == 0 {
		return Vec2{}, false
	}
	return Vec2{a.X / l, a.Y / l}, true
}

func (a Vec2) IsFinite() bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0)
}
