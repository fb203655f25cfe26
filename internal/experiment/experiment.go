// Package experiment runs configured scenes headlessly: single runs,
// YAML scenarios of several runs, and randomised cut trials.
package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/storage"
	"github.com/san-kum/verlet/internal/topology"
	"github.com/san-kum/verlet/internal/verlet"
)

var ErrNotSetup = errors.New("experiment: not set up")

type Experiment struct {
	cfg       *config.Config
	preset    string
	world     *verlet.World
	simulator *sim.Simulator
}

func New(cfg *config.Config, preset string) *Experiment {
	return &Experiment{cfg: cfg, preset: preset}
}

// Setup builds the configured scene from reg and attaches metrics.
func (e *Experiment) Setup(reg *topology.Registry, metrics []sim.Metric) error {
	w, err := e.cfg.Build(reg)
	if err != nil {
		return err
	}
	e.world = w
	e.simulator = sim.New(w)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) World() *verlet.World { return e.world }

// Metadata describes a finished run for storage.
func (e *Experiment) Metadata(res *sim.Result) (storage.RunMetadata, error) {
	if e.world == nil {
		return storage.RunMetadata{}, ErrNotSetup
	}
	if res == nil {
		return storage.RunMetadata{}, fmt.Errorf("nil result")
	}
	meta := storage.RunMetadata{
		Scene:      e.cfg.Scene,
		Preset:     e.preset,
		Dt:         e.cfg.Dt,
		Iterations: e.cfg.Iterations,
		Gravity:    e.cfg.Gravity,
		Points:     len(e.world.Points),
		Links:      len(e.world.Links),
	}
	return storage.Summarize(meta, res), nil
}
