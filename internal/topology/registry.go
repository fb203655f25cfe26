package topology

import (
	"fmt"
	"sort"

	"github.com/san-kum/verlet/internal/verlet"
)

// Scene holds the generator settings for every registered scene kind.
type Scene struct {
	Rope  RopeConfig  `yaml:"rope"`
	Cloth ClothConfig `yaml:"cloth"`
}

func DefaultScene() Scene {
	return Scene{Rope: DefaultRope(), Cloth: DefaultCloth()}
}

type Builder func(Scene) (*verlet.World, error)

type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.builders["rope"] = func(s Scene) (*verlet.World, error) { return Rope(s.Rope) }
	r.builders["cloth"] = func(s Scene) (*verlet.World, error) { return Cloth(s.Cloth) }
	r.builders["empty"] = func(Scene) (*verlet.World, error) { return verlet.NewWorld(), nil }

	return r
}

func (r *Registry) Register(name string, b Builder) { r.builders[name] = b }

func (r *Registry) Build(name string, s Scene) (*verlet.World, error) {
	fn, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	return fn(s)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
