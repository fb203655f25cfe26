package topology

import (
	"fmt"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

// ClothConfig lays a grid out from Origin. Every LockEvery-th point of the
// top row is pinned.
type ClothConfig struct {
	Columns   int       `yaml:"columns"`
	Rows      int       `yaml:"rows"`
	Gap       float64   `yaml:"gap"`
	LockEvery int       `yaml:"lock_every"`
	Radius    float64   `yaml:"radius"`
	Origin    geom.Vec2 `yaml:"origin"`
}

func DefaultCloth() ClothConfig {
	return ClothConfig{
		Columns:   56,
		Rows:      30,
		Gap:       20,
		LockEvery: 11,
		Radius:    0,
		Origin:    geom.V(50, 10),
	}
}

func (c ClothConfig) Validate() error {
	if c.Columns < 2 || c.Rows < 2 {
		return fmt.Errorf("grid must be at least 2x2, got %dx%d: %w", c.Columns, c.Rows, ErrInvalidConfig)
	}
	if c.Gap <= 0 {
		return fmt.Errorf("gap must be positive, got %g: %w", c.Gap, ErrInvalidConfig)
	}
	if c.LockEvery < 1 {
		return fmt.Errorf("lock_every must be at least 1, got %d: %w", c.LockEvery, ErrInvalidConfig)
	}
	if c.Radius < 0 {
		return fmt.Errorf("radius must not be negative, got %g: %w", c.Radius, ErrInvalidConfig)
	}
	return nil
}

// Cloth builds a Columns x Rows grid. For each cell the link to the right
// neighbour is added before the link to the one below.
func Cloth(cfg ClothConfig) (*verlet.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := verlet.NewWorld()
	index := func(x, y int) int { return y*cfg.Columns + x }

	for y := 0; y < cfg.Rows; y++ {
		for x := 0; x < cfg.Columns; x++ {
			pos := cfg.Origin.Add(geom.V(float64(x)*cfg.Gap, float64(y)*cfg.Gap))
			idx := w.AddPoint(pos, y == 0 && x%cfg.LockEvery == 0)
			w.Points[idx].Radius = cfg.Radius
		}
	}

	for y := 0; y < cfg.Rows; y++ {
		for x := 0; x < cfg.Columns; x++ {
			if x < cfg.Columns-1 {
				if _, err := w.AddLink(index(x, y), index(x+1, y)); err != nil {
					return nil, err
				}
			}
			if y < cfg.Rows-1 {
				if _, err := w.AddLink(index(x, y), index(x, y+1)); err != nil {
					return nil, err
				}
			}
		}
	}
	return w, nil
}
