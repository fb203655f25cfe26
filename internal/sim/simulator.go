package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

type Simulator struct {
	world     *verlet.World
	metrics   []Metric
	observers []Observer
	step      int
	severed   int
}

func New(w *verlet.World) *Simulator {
	return &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) World() *verlet.World { return s.world }
func (s *Simulator) Steps() int           { return s.step }
func (s *Simulator) Severed() int         { return s.severed }
func (s *Simulator) Metrics() []Metric    { return s.metrics }

// SetWorld swaps in a new world and restarts the step counter.
func (s *Simulator) SetWorld(w *verlet.World) {
	s.world = w
	s.step = 0
	s.severed = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Tick advances the world by one step, then notifies metrics and observers.
// A paused world is not stepped and nothing is notified.
func (s *Simulator) Tick(dt float64) {
	if s.world.Paused {
		return
	}
	s.world.Step(dt)
	s.step++

	for _, m := range s.metrics {
		m.Observe(s.world)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.world, s.step)
	}
}

// CutSegment severs the live links crossed by from-to.
func (s *Simulator) CutSegment(from, to geom.Vec2) int {
	n := s.world.Cut(from, to)
	s.severed += n
	return n
}

// Run steps the world cfg.Steps times at a fixed dt, applying scheduled cuts
// and recording metric series. The world is advanced in place.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	cuts := make(map[int][]ScheduledCut, len(cfg.Cuts))
	for _, c := range cfg.Cuts {
		cuts[c.Step] = append(cuts[c.Step], c)
	}

	result := &Result{
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range s.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, cfg.Steps)
	}
	if cfg.Track >= 0 {
		result.Track = make([]geom.Vec2, 0, cfg.Steps)
	}

	startSevered := s.severed

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result, startSevered)
			return result, ctx.Err()
		default:
		}

		for _, c := range cuts[i] {
			s.CutSegment(c.From, c.To)
		}

		s.Tick(cfg.Dt)
		result.StepsTaken++

		for _, m := range s.metrics {
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		if cfg.Track >= 0 {
			result.Track = append(result.Track, s.world.Points[cfg.Track].Pos)
		}
		if cfg.FrameEvery > 0 && (i+1)%cfg.FrameEvery == 0 {
			result.Frames = append(result.Frames, snapshot(s.world, i+1))
		}

		if cfg.ValidateState && !s.world.Valid() {
			result.Errors = append(result.Errors, &SimulationError{Step: i, Wrapped: ErrInvalidState})
			break
		}
	}

	s.collect(result, startSevered)
	return result, nil
}

func (s *Simulator) collect(result *Result, startSevered int) {
	result.Severed = s.severed - startSevered
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, ErrInvalidConfig)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", cfg.Steps, ErrInvalidConfig)
	}
	if s.world.Paused {
		return fmt.Errorf("world is paused: %w", ErrInvalidConfig)
	}
	if cfg.Track >= len(s.world.Points) {
		return fmt.Errorf("tracked point %d with %d points: %w", cfg.Track, len(s.world.Points), ErrInvalidConfig)
	}
	for _, c := range cfg.Cuts {
		if c.Step < 0 || c.Step >= cfg.Steps {
			return fmt.Errorf("cut at step %d outside [0,%d): %w", c.Step, cfg.Steps, ErrInvalidConfig)
		}
	}
	return nil
}

func snapshot(w *verlet.World, step int) Frame {
	pts := make([]geom.Vec2, len(w.Points))
	for i := range w.Points {
		pts[i] = w.Points[i].Pos
	}
	return Frame{Step: step, Points: pts}
}
