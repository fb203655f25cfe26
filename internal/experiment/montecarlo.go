package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
	"github.com/san-kum/verlet/internal/verlet"
)

// MonteCarloConfig drives trials that each slash the same scene along a
// random segment inside its initial bounds.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	CutStep   int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID int
	Cut     sim.ScheduledCut
	Severed int
	Stretch float64
	Stable  bool
}

// RunMonteCarlo runs the trials concurrently through sim.Ensemble. A zero
// seed draws one from the clock.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, reg *topology.Registry) ([]MonteCarloResult, error) {
	if cfg.Base == nil {
		return nil, fmt.Errorf("no base configuration")
	}
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}
	if reg == nil {
		reg = topology.NewRegistry()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	worlds := make([]*verlet.World, cfg.NumTrials)
	cuts := make([]sim.ScheduledCut, cfg.NumTrials)
	for i := range worlds {
		w, err := cfg.Base.Build(reg)
		if err != nil {
			return nil, err
		}
		lo, hi := w.Bounds()
		pick := func() geom.Vec2 {
			return geom.V(lo.X+rng.Float64()*(hi.X-lo.X), lo.Y+rng.Float64()*(hi.Y-lo.Y))
		}
		worlds[i] = w
		cuts[i] = sim.ScheduledCut{Step: cfg.CutStep, From: pick(), To: pick()}
	}

	simCfg := cfg.Base.SimConfig()
	if cfg.CutStep < 0 || cfg.CutStep >= simCfg.Steps {
		return nil, fmt.Errorf("cut step %d outside [0,%d)", cfg.CutStep, simCfg.Steps)
	}

	ens := sim.NewEnsemble(worlds, func() []sim.Metric {
		return []sim.Metric{metrics.NewStretch()}
	})
	runs, err := ens.RunEach(ctx, func(i int) sim.Config {
		c := simCfg
		c.Cuts = []sim.ScheduledCut{cuts[i]}
		return c
	})
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID: i,
			Cut:     cuts[i],
			Severed: r.Severed,
			Stretch: r.Metrics["stretch"],
			Stable:  len(r.Errors) == 0 && worlds[i].Valid(),
		}
	}
	return results, nil
}
