package sim

import (
	"context"
	"sync"

	"github.com/san-kum/verlet/internal/verlet"
)

// Ensemble runs independent worlds concurrently, one goroutine per world.
// Each run gets its own metric set from NewMetrics.
type Ensemble struct {
	worlds     []*verlet.World
	newMetrics func() []Metric
}

func NewEnsemble(worlds []*verlet.World, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{worlds: worlds, newMetrics: newMetrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	return e.RunEach(ctx, func(int) Config { return cfg })
}

// RunEach runs world i with the configuration returned by cfgFor(i).
func (e *Ensemble) RunEach(ctx context.Context, cfgFor func(i int) Config) ([]*Result, error) {
	results := make([]*Result, len(e.worlds))
	errs := make([]error, len(e.worlds))

	var wg sync.WaitGroup
	for i, w := range e.worlds {
		cfg := cfgFor(i)
		wg.Add(1)
		go func(idx int, w *verlet.World, cfg Config) {
			defer wg.Done()

			s := New(w)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, w, cfg)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
