package experiment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/storage"
	"github.com/san-kum/verlet/internal/topology"
)

const snapScenario = `
name: snap
description: cut a short rope, then let a small cloth settle
steps:
  - scene: rope
    preset: short
    steps: 30
    track: 19
    cuts:
      - step: 0
        from: {x: 645, y: -50}
        to: {x: 645, y: 50}
    save_as: short-cut
  - scene: cloth
    preset: small
    steps: 10
    iterations: 5
`

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("rope", "short")
	cfg.Steps = 20

	exp := New(cfg, "short")
	if _, err := exp.Run(context.Background()); !errors.Is(err, ErrNotSetup) {
		t.Fatalf("expected ErrNotSetup, got %v", err)
	}

	if err := exp.Setup(topology.NewRegistry(), metrics.Default()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	meta, err := exp.Metadata(res)
	if err != nil {
		t.Fatalf("metadata failed: %v", err)
	}
	if meta.Scene != "rope" || meta.Preset != "short" || meta.Steps != 20 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Points != 20 || meta.Links != 19 {
		t.Errorf("points/links = %d/%d", meta.Points, meta.Links)
	}
	if _, ok := meta.Metrics["stretch"]; !ok {
		t.Error("stretch metric missing")
	}
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(snapScenario))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "snap" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	cfg, err := sc.Steps[0].Config()
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if cfg.Steps != 30 || cfg.Track != 19 || len(cfg.Cuts) != 1 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Layout.Rope.Segments != 20 {
		t.Errorf("preset layout lost: %+v", cfg.Layout.Rope)
	}

	cfg, err = sc.Steps[1].Config()
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if cfg.Iterations != 5 || cfg.Track != -1 {
		t.Errorf("unexpected cloth config %+v", cfg)
	}

	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := (ScenarioStep{Scene: "rope", Preset: "nope"}).Config(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(snapScenario))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	st := storage.NewFileStore(filepath.Join(t.TempDir(), "runs"))
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	r := &Runner{Store: st}
	results, err := r.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Result.Severed != 1 {
		t.Errorf("expected one severed link, got %d", first.Result.Severed)
	}
	if len(first.Result.Track) != 30 {
		t.Errorf("track length = %d", len(first.Result.Track))
	}
	if first.RunID != "short-cut" {
		t.Errorf("run id = %q", first.RunID)
	}

	saved, err := st.Load("short-cut")
	if err != nil {
		t.Fatalf("saved run missing: %v", err)
	}
	if saved.Severed != 1 {
		t.Errorf("stored severed = %d", saved.Severed)
	}
	if results[1].RunID != "" {
		t.Error("second step should not be saved")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("cloth", "small")
	base.Steps = 15

	mc := MonteCarloConfig{Base: base, NumTrials: 4, CutStep: 3, Seed: 7}
	first, err := RunMonteCarlo(context.Background(), mc, nil)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(first))
	}

	again, err := RunMonteCarlo(context.Background(), mc, nil)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	for i := range first {
		if first[i] != again[i] {
			t.Errorf("trial %d differs with the same seed: %+v vs %+v", i, first[i], again[i])
		}
		if !first[i].Stable {
			t.Errorf("trial %d unstable", i)
		}
		if first[i].Cut.Step != 3 {
			t.Errorf("trial %d cut step = %d", i, first[i].Cut.Step)
		}
	}

	if _, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base, NumTrials: 1, CutStep: 15}, nil); err == nil {
		t.Error("expected error for cut after the last step")
	}
	if _, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base}, nil); err == nil {
		t.Error("expected error for zero trials")
	}
}
