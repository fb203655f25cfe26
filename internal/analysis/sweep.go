package analysis

import (
	"fmt"

	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/verlet"
)

// SweepPoint is the peak stretch reached with a given iteration count.
type SweepPoint struct {
	Iterations int
	Stretch    float64
}

// IterationSweep rebuilds a world for each iteration count, runs it for
// steps and records the worst relative link error seen.
func IterationSweep(build func() (*verlet.World, error), iterations []int, dt float64, steps int) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(iterations))

	for _, it := range iterations {
		if it <= 0 {
			return nil, fmt.Errorf("iterations must be positive, got %d", it)
		}
		w, err := build()
		if err != nil {
			return nil, err
		}
		w.Iterations = it

		stretch := metrics.NewStretch()
		for i := 0; i < steps; i++ {
			w.Step(dt)
			stretch.Observe(w)
		}

		results = append(results, SweepPoint{Iterations: it, Stretch: stretch.Peak()})
	}

	return results, nil
}
