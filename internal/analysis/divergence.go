package analysis

import (
	"math"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

// Divergence estimates how fast two copies of w separate when point idx of
// one copy is displaced by eps along x. It is the mean log growth rate of
// the separation per unit time, renormalised whenever the separation exceeds
// one unit. w itself is not modified.
func Divergence(w *verlet.World, idx int, eps, dt float64, steps int) float64 {
	if idx < 0 || idx >= len(w.Points) || eps <= 0 || dt <= 0 {
		return 0
	}

	a := w.Clone()
	b := w.Clone()
	a.Paused, b.Paused = false, false
	shift := geom.V(eps, 0)
	b.Points[idx].Pos = b.Points[idx].Pos.Add(shift)
	b.Points[idx].Prev = b.Points[idx].Prev.Add(shift)

	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		a.Step(dt)
		b.Step(dt)

		sep := separation(a, b)
		if sep > 0 {
			sumLog += math.Log(sep / eps)
			count++
		}

		if sep > 1.0 {
			scale := eps / sep
			for j := range b.Points {
				pa, pb := &a.Points[j], &b.Points[j]
				pb.Pos = pa.Pos.Add(pb.Pos.Sub(pa.Pos).Scale(scale))
				pb.Prev = pa.Prev.Add(pb.Prev.Sub(pa.Prev).Scale(scale))
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

func separation(a, b *verlet.World) float64 {
	sum := 0.0
	for i := range a.Points {
		sum += a.Points[i].Pos.Sub(b.Points[i].Pos).LenSq()
	}
	return math.Sqrt(sum)
}
