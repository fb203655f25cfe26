package viz

import (
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

// anchorRing is the sub-pixel radius used for locked points.
const anchorRing = 1

// DrawWorld draws every live link as a line and every locked point as a
// small ring. Free points with a positive radius are drawn as a dot.
func DrawWorld(c *Canvas, p Projection, w *verlet.World) {
	for i := range w.Links {
		l := &w.Links[i]
		if l.Dead {
			continue
		}
		a, b := l.Segment(w.Points)
		x0, y0 := p.ToPixel(a)
		x1, y1 := p.ToPixel(b)
		c.DrawLine(x0, y0, x1, y1)
	}

	for i := range w.Points {
		pt := &w.Points[i]
		x, y := p.ToPixel(pt.Pos)
		switch {
		case pt.Locked:
			c.DrawRing(x, y, anchorRing)
		case pt.Radius > 0:
			c.Set(x, y)
		}
	}
}

// DrawSegment draws a world-space segment such as a pending link.
func DrawSegment(c *Canvas, p Projection, a, b geom.Vec2) {
	x0, y0 := p.ToPixel(a)
	x1, y1 := p.ToPixel(b)
	c.DrawLine(x0, y0, x1, y1)
}
