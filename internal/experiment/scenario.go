package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/logging"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/storage"
	"github.com/san-kum/verlet/internal/topology"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Scene and Preset pick the starting
// configuration; non-zero fields override it.
type ScenarioStep struct {
	Scene      string             `yaml:"scene"`
	Preset     string             `yaml:"preset"`
	Steps      int                `yaml:"steps"`
	Dt         float64            `yaml:"dt"`
	Iterations int                `yaml:"iterations"`
	Track      *int               `yaml:"track"`
	Cuts       []sim.ScheduledCut `yaml:"cuts"`
	SaveAs     string             `yaml:"save_as"`
}

type StepResult struct {
	Meta   storage.RunMetadata
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step against the preset tables.
func (s ScenarioStep) Config() (*config.Config, error) {
	var cfg *config.Config
	if s.Preset != "" {
		cfg = config.GetPreset(s.Scene, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", s.Scene, s.Preset)
		}
	} else {
		cfg = config.DefaultConfig()
		if s.Scene != "" {
			cfg.Scene = s.Scene
		}
	}

	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Iterations > 0 {
		cfg.Iterations = s.Iterations
	}
	if s.Track != nil {
		cfg.Track = *s.Track
	}
	if len(s.Cuts) > 0 {
		cfg.Cuts = s.Cuts
	}
	return cfg, nil
}

// Runner executes scenarios. Store may be nil, in which case save_as is
// ignored.
type Runner struct {
	Registry *topology.Registry
	Store    storage.Store
	Log      *slog.Logger
}

// RunScenario executes all steps in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	log := r.Log
	if log == nil {
		log = logging.Discard()
	}
	reg := r.Registry
	if reg == nil {
		reg = topology.NewRegistry()
	}

	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("running scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "scene", cfg.Scene, "preset", step.Preset)

		exp := New(cfg, step.Preset)
		if err := exp.Setup(reg, metrics.Default()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		for _, e := range result.Errors {
			log.Warn("run reported error", "step", i+1, "err", e)
		}

		meta, err := exp.Metadata(result)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sr := StepResult{Meta: meta, Result: result}
		if step.SaveAs != "" && r.Store != nil {
			meta.ID = step.SaveAs
			id, err := r.Store.Save(meta, result.Series)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
			sr.Meta.ID = id
			log.Info("saved run", "id", id)
		}

		results = append(results, sr)
	}

	return results, nil
}
