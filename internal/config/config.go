package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
	"github.com/san-kum/verlet/internal/verlet"
)

const (
	DefaultScene      = "rope"
	DefaultDt         = 1.0 / 60.0
	DefaultSteps      = 600
	DefaultIterations = verlet.SolveIterations
	DefaultGravity    = verlet.GravityFactor

	// StageWidth and StageHeight bound the region every viewer draws.
	StageWidth  = 1200
	StageHeight = 800
)

type Config struct {
	Scene      string             `yaml:"scene"`
	Dt         float64            `yaml:"dt"`
	Steps      int                `yaml:"steps"`
	Iterations int                `yaml:"iterations"`
	Gravity    float64            `yaml:"gravity"`
	Track      int                `yaml:"track"`
	FrameEvery int                `yaml:"frame_every"`
	Layout     topology.Scene     `yaml:"layout"`
	Cuts       []sim.ScheduledCut `yaml:"cuts,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      DefaultScene,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Iterations: DefaultIterations,
		Gravity:    DefaultGravity,
		Track:      -1,
		Layout:     topology.DefaultScene(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	return nil
}

// Build creates the configured scene and applies the solver settings to it.
func (c *Config) Build(reg *topology.Registry) (*verlet.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	w, err := reg.Build(c.Scene, c.Layout)
	if err != nil {
		return nil, err
	}
	c.Apply(w)
	return w, nil
}

func (c *Config) Apply(w *verlet.World) {
	w.Iterations = c.Iterations
	w.Gravity = geom.V(0, c.Gravity)
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		Cuts:          c.Cuts,
		ValidateState: true,
		FrameEvery:    c.FrameEvery,
		Track:         c.Track,
	}
}
