package metrics

import (
	"math"

	"github.com/san-kum/verlet/internal/verlet"
)

// maxStretch is the largest relative rest-length error over live links
// with a positive rest length. A world with non-finite positions reports
// +Inf.
func maxStretch(w *verlet.World) float64 {
	if !w.Valid() {
		return math.Inf(1)
	}
	worst := 0.0
	for i := range w.Links {
		l := &w.Links[i]
		if l.Dead || l.Rest <= 0 {
			continue
		}
		e := math.Abs(l.Length(w.Points)-l.Rest) / l.Rest
		if math.IsNaN(e) {
			return math.Inf(1)
		}
		if e > worst {
			worst = e
		}
	}
	return worst
}

// Stretch reports the current worst relative link error. Peak keeps the
// largest value seen since the last reset.
type Stretch struct {
	name string
	last float64
	peak float64
}

func NewStretch() *Stretch {
	return &Stretch{name: "stretch"}
}

func (s *Stretch) Name() string { return s.name }

func (s *Stretch) Observe(w *verlet.World) {
	s.last = maxStretch(w)
	if s.last > s.peak {
		s.peak = s.last
	}
}

func (s *Stretch) Value() float64 { return s.last }
func (s *Stretch) Peak() float64  { return s.peak }

func (s *Stretch) Reset() {
	s.last = 0
	s.peak = 0
}
