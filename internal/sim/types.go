package sim

import (
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

type Metric interface {
	Name() string
	Observe(w *verlet.World)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *verlet.World, step int)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(w *verlet.World, step int)

func (f ObserverFunc) OnStep(w *verlet.World, step int) { f(w, step) }

// ScheduledCut severs links along From-To just before step Step runs.
type ScheduledCut struct {
	Step int       `yaml:"step" json:"step"`
	From geom.Vec2 `yaml:"from" json:"from"`
	To   geom.Vec2 `yaml:"to" json:"to"`
}

type Config struct {
	Dt            float64
	Steps         int
	Cuts          []ScheduledCut
	ValidateState bool

	// FrameEvery records a copy of every point position each n steps.
	// Zero disables frames.
	FrameEvery int

	// Track is the index of a point whose position is recorded every step,
	// or -1.
	Track int
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Steps:         600,
		ValidateState: true,
		Track:         -1,
	}
}

type Frame struct {
	Step   int
	Points []geom.Vec2
}

type Result struct {
	StepsTaken int
	Severed    int
	Metrics    map[string]float64
	Series     map[string][]float64
	Frames     []Frame
	Track      []geom.Vec2
	Errors     []error
}
