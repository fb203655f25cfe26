package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

func chain(n int, gap float64, lockEnds bool) *verlet.World {
	w := verlet.NewWorld()
	for i := 0; i < n; i++ {
		locked := lockEnds && (i == 0 || i == n-1)
		w.AddPoint(geom.V(float64(i)*gap, 0), locked)
		if i > 0 {
			w.AddLink(i-1, i)
		}
	}
	return w
}

type testMetric struct {
	count int
	last  float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(w *verlet.World) {
	t.count++
	t.last = float64(w.LiveLinks())
}
func (t *testMetric) Value() float64 { return t.last }
func (t *testMetric) Reset() {
	t.count = 0
	t.last = 0
}

func TestSimulatorRun(t *testing.T) {
	w := chain(4, 10, true)
	s := New(w)
	metric := &testMetric{}
	s.AddMetric(metric)

	cfg := DefaultConfig()
	cfg.Steps = 20
	cfg.FrameEvery = 5
	cfg.Track = 1

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 20 || s.Steps() != 20 {
		t.Errorf("steps = %d/%d, want 20", result.StepsTaken, s.Steps())
	}
	if metric.count != 20 {
		t.Errorf("expected 20 observations, got %d", metric.count)
	}
	if got := len(result.Series["test"]); got != 20 {
		t.Errorf("series length = %d, want 20", got)
	}
	if result.Metrics["test"] != 3 {
		t.Errorf("final metric = %f, want 3", result.Metrics["test"])
	}
	if len(result.Track) != 20 {
		t.Errorf("track length = %d, want 20", len(result.Track))
	}

	if len(result.Frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(result.Frames))
	}
	for i, f := range result.Frames {
		if f.Step != (i+1)*5 || len(f.Points) != 4 {
			t.Errorf("frame %d = step %d with %d points", i, f.Step, len(f.Points))
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		paused bool
	}{
		{"zero dt", Config{Dt: 0, Steps: 10, Track: -1}, false},
		{"negative dt", Config{Dt: -0.1, Steps: 10, Track: -1}, false},
		{"zero steps", Config{Dt: 0.1, Steps: 0, Track: -1}, false},
		{"track out of range", Config{Dt: 0.1, Steps: 10, Track: 9}, false},
		{"cut after end", Config{Dt: 0.1, Steps: 10, Track: -1, Cuts: []ScheduledCut{{Step: 10}}}, false},
		{"paused", Config{Dt: 0.1, Steps: 10, Track: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := chain(3, 10, false)
			w.Paused = tt.paused
			_, err := New(w).Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorScheduledCut(t *testing.T) {
	w := chain(4, 10, true)
	s := New(w)

	cfg := DefaultConfig()
	cfg.Steps = 5
	cfg.Cuts = []ScheduledCut{{Step: 0, From: geom.V(15, -5), To: geom.V(15, 5)}}

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Severed != 1 {
		t.Errorf("severed = %d, want 1", result.Severed)
	}
	if !w.Links[1].Dead || w.Links[0].Dead || w.Links[2].Dead {
		t.Errorf("wrong links severed: %+v", w.Links)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	w := verlet.NewWorld()
	w.AddPoint(geom.V(math.NaN(), 0), false)

	cfg := DefaultConfig()
	cfg.Steps = 10
	result, err := New(w).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 1 {
		t.Errorf("run should stop after the first bad step, took %d", result.StepsTaken)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v", result.Errors)
	}

	var simErr *SimulationError
	if !errors.As(result.Errors[0], &simErr) || simErr.Step != 0 {
		t.Errorf("expected SimulationError at step 0, got %v", result.Errors[0])
	}
	if !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Error("error should wrap ErrInvalidState")
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(chain(3, 10, false)).Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("canceled run should return an empty result")
	}
}

func TestSimulatorTickPaused(t *testing.T) {
	w := chain(3, 10, false)
	s := New(w)
	calls := 0
	s.AddObserver(ObserverFunc(func(*verlet.World, int) { calls++ }))

	w.Paused = true
	s.Tick(0.1)
	if calls != 0 || s.Steps() != 0 {
		t.Error("paused tick should not notify observers")
	}

	w.Paused = false
	s.Tick(0.1)
	if calls != 1 || s.Steps() != 1 {
		t.Errorf("calls = %d, steps = %d", calls, s.Steps())
	}
}

func TestEnsemble(t *testing.T) {
	worlds := []*verlet.World{chain(3, 10, true), chain(5, 10, true), chain(7, 10, true)}
	e := NewEnsemble(worlds, func() []Metric { return []Metric{&testMetric{}} })

	cfg := DefaultConfig()
	cfg.Steps = 30
	results, err := e.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, r := range results {
		want := float64(len(worlds[i].Links))
		if r.Metrics["test"] != want {
			t.Errorf("run %d metric = %f, want %f", i, r.Metrics["test"], want)
		}
	}
}

func TestFramePool(t *testing.T) {
	p := NewFramePool()
	buf := p.Get(1000)
	if len(*buf) != 0 || cap(*buf) < 1000 {
		t.Fatalf("len %d cap %d", len(*buf), cap(*buf))
	}
	*buf = append(*buf, geom.V(1, 2))
	p.Put(buf)

	again := p.Get(10)
	if len(*again) != 0 {
		t.Error("pooled buffer should come back empty")
	}
}
