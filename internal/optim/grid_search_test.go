package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/verlet/internal/config"
)

func shortRope() *config.Config {
	cfg := config.GetPreset("rope", "short")
	cfg.Steps = 60
	return cfg
}

func TestSearchPrefersMoreIterations(t *testing.T) {
	g, err := NewGridSearch([]string{"iterations"}, [][]float64{{1, 20}})
	if err != nil {
		t.Fatal(err)
	}

	params, best, err := g.Search(context.Background(), shortRope(), "stretch")
	if err != nil {
		t.Fatal(err)
	}
	if params["iterations"] != 20 {
		t.Errorf("expected 20 iterations to win, got %v", params)
	}
	if best < 0 {
		t.Errorf("negative stretch %g", best)
	}
}

func TestSearchTwoParams(t *testing.T) {
	g, err := NewGridSearch([]string{"iterations", "gravity"}, [][]float64{{20}, {0, 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	params, _, err := g.Search(context.Background(), shortRope(), "sag")
	if err != nil {
		t.Fatal(err)
	}
	// without gravity the horizontal rope barely drops
	if params["gravity"] != 0 {
		t.Errorf("expected zero gravity to minimise sag, got %v", params)
	}
}

func TestNewGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"mass"}, [][]float64{{1}}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := NewGridSearch([]string{"dt"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"dt"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestSearchUnknownMetric(t *testing.T) {
	g, _ := NewGridSearch([]string{"iterations"}, [][]float64{{10}})
	if _, _, err := g.Search(context.Background(), shortRope(), "entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestSearchCancelled(t *testing.T) {
	g, _ := NewGridSearch([]string{"iterations"}, [][]float64{{5, 10}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, shortRope(), "stretch"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestApply(t *testing.T) {
	base := config.DefaultConfig()
	c := Apply(base, map[string]float64{"iterations": 7, "dt": 0.01, "gravity": 1})
	if c.Iterations != 7 || c.Dt != 0.01 || c.Gravity != 1 {
		t.Errorf("params not applied: %+v", c)
	}
	if base.Iterations == 7 {
		t.Error("base modified")
	}
}
