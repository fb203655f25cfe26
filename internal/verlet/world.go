package verlet

import (
	"fmt"
	"math"

	"github.com/san-kum/verlet/internal/geom"
)

const (
	// SolveIterations is the number of relaxation sweeps per step.
	SolveIterations = 20

	// GravityFactor is the downward impulse added to every free point per step.
	GravityFactor = 0.5

	// parallelThreshold is the point count above which integration is split
	// across workers.
	parallelThreshold = 4096
)

// World owns the points and links of one scene.
type World struct {
	Points     []Point
	Links      []Link
	Gravity    geom.Vec2
	Iterations int
	Paused     bool
}

func NewWorld() *World {
	return &World{
		Points:     make([]Point, 0),
		Links:      make([]Link, 0),
		Gravity:    geom.V(0, GravityFactor),
		Iterations: SolveIterations,
	}
}

// AddPoint appends a point with the default radius and returns its index.
func (w *World) AddPoint(pos geom.Vec2, locked bool) int {
	w.Points = append(w.Points, NewPoint(pos, locked))
	return len(w.Points) - 1
}

// AddLink joins points a and b with a link whose rest length is their
// current distance.
func (w *World) AddLink(a, b int) (int, error) {
	if a < 0 || a >= len(w.Points) || b < 0 || b >= len(w.Points) {
		return -1, fmt.Errorf("link %d-%d with %d points: %w", a, b, len(w.Points), ErrPointIndex)
	}
	if a == b {
		return -1, fmt.Errorf("link %d-%d: %w", a, b, ErrSelfLink)
	}

	w.Links = append(w.Links, Link{
		A:    a,
		B:    b,
		Rest: w.Points[a].Pos.Dist(w.Points[b].Pos),
	})
	return len(w.Links) - 1, nil
}

// Step runs one simulation tick: Iterations relaxation sweeps over the live
// links in insertion order, then one integration of every point. A paused
// world is left untouched.
func (w *World) Step(dt float64) {
	if w.Paused {
		return
	}

	for i := 0; i < w.Iterations; i++ {
		w.relaxAll()
	}
	w.integrateAll(dt)
}

func (w *World) relaxAll() {
	for i := range w.Links {
		w.Links[i].Relax(w.Points)
	}
}

// integrateAll is order independent, so splitting it across workers gives
// the same result as the sequential loop.
func (w *World) integrateAll(dt float64) {
	g := w.Gravity
	if len(w.Points) < parallelThreshold {
		for i := range w.Points {
			w.Points[i].Integrate(dt, g)
		}
		return
	}

	ParallelFor(len(w.Points), parallelThreshold/4, func(start, end int) {
		for i := start; i < end; i++ {
			w.Points[i].Integrate(dt, g)
		}
	})
}

// Cut severs the live links crossed by start-end.
func (w *World) Cut(start, end geom.Vec2) int {
	return Cut(start, end, w.Points, w.Links)
}

// Reset discards the topology. Settings are kept.
func (w *World) Reset() {
	w.Points = w.Points[:0]
	w.Links = w.Links[:0]
}

// LiveLinks counts links that are not severed.
func (w *World) LiveLinks() int {
	n := 0
	for i := range w.Links {
		if !w.Links[i].Dead {
			n++
		}
	}
	return n
}

// Valid reports whether every point position is finite.
func (w *World) Valid() bool {
	for i := range w.Points {
		if !w.Points[i].Pos.IsFinite() {
			return false
		}
	}
	return true
}

// PointAt returns the index of the first point whose radius covers pos, or
// -1 if there is none.
func (w *World) PointAt(pos geom.Vec2) int {
	for i := range w.Points {
		if w.Points[i].Contains(pos) {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the world.
func (w *World) Clone() *World {
	c := *w
	c.Points = make([]Point, len(w.Points))
	copy(c.Points, w.Points)
	c.Links = make([]Link, len(w.Links))
	copy(c.Links, w.Links)
	return &c
}

// Bounds returns the bounding box of all points. An empty world reports a
// zero box.
func (w *World) Bounds() (lo, hi geom.Vec2) {
	if len(w.Points) == 0 {
		return geom.Vec2{}, geom.Vec2{}
	}
	lo = geom.V(math.Inf(1), math.Inf(1))
	hi = geom.V(math.Inf(-1), math.Inf(-1))
	for i := range w.Points {
		p := w.Points[i].Pos
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
