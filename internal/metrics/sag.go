package metrics

import (
	"math"

	"github.com/san-kum/verlet/internal/verlet"
)

// Sag is how far the lowest free point hangs below the highest anchor.
// Screen coordinates grow downward, so the highest anchor has the smallest y.
// Worlds without anchors report zero.
type Sag struct {
	name string
	last float64
}

func NewSag() *Sag {
	return &Sag{name: "sag"}
}

func (s *Sag) Name() string { return s.name }

func (s *Sag) Observe(w *verlet.World) {
	top := math.Inf(1)
	bottom := math.Inf(-1)
	for i := range w.Points {
		p := &w.Points[i]
		if p.Locked {
			top = math.Min(top, p.Pos.Y)
		} else {
			bottom = math.Max(bottom, p.Pos.Y)
		}
	}
	if math.IsInf(top, 0) || math.IsInf(bottom, 0) {
		s.last = 0
		return
	}
	s.last = bottom - top
}

func (s *Sag) Value() float64 { return s.last }

func (s *Sag) Reset() { s.last = 0 }
