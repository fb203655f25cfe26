package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/verlet/internal/sim"
)

// DefaultStabilityThreshold is the relative stretch above which a step
// counts against Stability.
const DefaultStabilityThreshold = 0.05

var factories = map[string]func() sim.Metric{
	"stretch":   func() sim.Metric { return NewStretch() },
	"severed":   func() sim.Metric { return NewSevered() },
	"motion":    func() sim.Metric { return NewMotion() },
	"sag":       func() sim.Metric { return NewSag() },
	"stability": func() sim.Metric { return NewStability(DefaultStabilityThreshold) },
}

// Default returns a fresh instance of every metric.
func Default() []sim.Metric {
	out := make([]sim.Metric, 0, len(factories))
	for _, name := range Names() {
		out = append(out, factories[name]())
	}
	return out
}

func ByName(name string) (sim.Metric, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
