package interact

import (
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

// CutGesture feeds consecutive pointer samples to World.Cut while active.
// Samples taken while the world is paused only move the anchor of the next
// segment.
type CutGesture struct {
	world  *verlet.World
	last   geom.Vec2
	active bool
	total  int
}

func NewCutGesture(w *verlet.World) *CutGesture {
	return &CutGesture{world: w}
}

func (g *CutGesture) SetWorld(w *verlet.World) {
	g.world = w
	g.active = false
}

func (g *CutGesture) Active() bool { return g.active }

// Severed is the number of links cut since the gesture was created.
func (g *CutGesture) Severed() int { return g.total }

func (g *CutGesture) Begin(pos geom.Vec2) {
	g.last = pos
	g.active = true
}

// Move cuts along the segment from the previous sample to pos and returns
// how many links were severed.
func (g *CutGesture) Move(pos geom.Vec2) int {
	if !g.active {
		return 0
	}
	from := g.last
	g.last = pos
	if g.world.Paused {
		return 0
	}
	n := g.world.Cut(from, pos)
	g.total += n
	return n
}

func (g *CutGesture) End() { g.active = false }
