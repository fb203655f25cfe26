package metrics

import "github.com/san-kum/verlet/internal/verlet"

type Severed struct {
	name string
	dead int
}

func NewSevered() *Severed {
	return &Severed{name: "severed"}
}

func (s *Severed) Name() string { return s.name }

func (s *Severed) Observe(w *verlet.World) {
	s.dead = len(w.Links) - w.LiveLinks()
}

func (s *Severed) Value() float64 { return float64(s.dead) }

func (s *Severed) Reset() { s.dead = 0 }
