// Package optim searches solver settings for the one that minimises a run
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// Params are the settings a search may vary.
var Params = []string{"iterations", "dt", "gravity"}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for i, p := range params {
		if !known(p) {
			return nil, fmt.Errorf("%q: %w", p, ErrUnknownParam)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%s: empty range", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func known(p string) bool {
	for _, k := range Params {
		if k == p {
			return true
		}
	}
	return false
}

// Apply returns a copy of base with params set.
func Apply(base *config.Config, params map[string]float64) *config.Config {
	c := *base
	for k, v := range params {
		switch k {
		case "iterations":
			c.Iterations = int(v)
		case "dt":
			c.Dt = v
		case "gravity":
			c.Gravity = v
		}
	}
	return &c
}

// Search runs every combination from base and returns the one with the
// lowest final value of metricName. Combinations that fail to build or run
// are skipped; if all fail the last error is returned.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	if _, err := metrics.ByName(metricName); err != nil {
		return nil, 0, err
	}

	reg := topology.NewRegistry()
	best := math.Inf(1)
	var bestParams map[string]float64
	var lastErr error

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		exp := experiment.New(Apply(base, params), "")
		m, _ := metrics.ByName(metricName)
		if err := exp.Setup(reg, []sim.Metric{m}); err != nil {
			lastErr = err
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			return nil
		}
		if len(result.Errors) > 0 {
			lastErr = result.Errors[0]
			return nil
		}

		val := result.Metrics[metricName]
		if val < best {
			best = val
			bestParams = make(map[string]float64, len(params))
			for k, v := range params {
				bestParams[k] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		if lastErr == nil {
			lastErr = errors.New("optim: no combination evaluated")
		}
		return nil, 0, lastErr
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, eval); err != nil {
			return err
		}
	}
	return nil
}
