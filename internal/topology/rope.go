package topology

import (
	"fmt"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

// RopeConfig lays a rope out horizontally from Origin.
type RopeConfig struct {
	Segments      int       `yaml:"segments"`
	SegmentLength float64   `yaml:"segment_length"`
	Radius        float64   `yaml:"radius"`
	Origin        geom.Vec2 `yaml:"origin"`
	StartLocked   bool      `yaml:"start_locked"`
	EndLocked     bool      `yaml:"end_locked"`
}

func DefaultRope() RopeConfig {
	return RopeConfig{
		Segments:      150,
		SegmentLength: 2,
		Radius:        0,
		Origin:        geom.V(600, 10),
		StartLocked:   true,
	}
}

func (c RopeConfig) Validate() error {
	if c.Segments < 2 {
		return fmt.Errorf("segments must be at least 2, got %d: %w", c.Segments, ErrInvalidConfig)
	}
	if c.SegmentLength <= 0 {
		return fmt.Errorf("segment_length must be positive, got %g: %w", c.SegmentLength, ErrInvalidConfig)
	}
	if c.Radius < 0 {
		return fmt.Errorf("radius must not be negative, got %g: %w", c.Radius, ErrInvalidConfig)
	}
	return nil
}

// Rope builds a chain of Segments points. Link i-1 joins point i to point i-1.
func Rope(cfg RopeConfig) (*verlet.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := verlet.NewWorld()
	last := cfg.Segments - 1
	for i := 0; i < cfg.Segments; i++ {
		locked := (i == 0 && cfg.StartLocked) || (i == last && cfg.EndLocked)
		pos := cfg.Origin.Add(geom.V(float64(i)*cfg.SegmentLength, 0))

		idx := w.AddPoint(pos, locked)
		w.Points[idx].Radius = cfg.Radius

		if i > 0 {
			if _, err := w.AddLink(idx, idx-1); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}
