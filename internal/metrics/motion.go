package metrics

import "github.com/san-kum/verlet/internal/verlet"

// Motion is the mean squared per-step displacement of the free points, a
// stand-in for kinetic energy with unit masses.
type Motion struct {
	name string
	last float64
}

func NewMotion() *Motion {
	return &Motion{name: "motion"}
}

func (m *Motion) Name() string { return m.name }

func (m *Motion) Observe(w *verlet.World) {
	sum := 0.0
	n := 0
	for i := range w.Points {
		p := &w.Points[i]
		if p.Locked {
			continue
		}
		sum += p.Velocity().LenSq()
		n++
	}
	if n == 0 {
		m.last = 0
		return
	}
	m.last = sum / float64(n)
}

func (m *Motion) Value() float64 { return m.last }

func (m *Motion) Reset() { m.last = 0 }
