package config

import (
	"sort"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
)

func rope(r topology.RopeConfig, steps int) *Config {
	cfg := DefaultConfig()
	cfg.Scene = "rope"
	cfg.Steps = steps
	cfg.Layout.Rope = r
	return cfg
}

func cloth(c topology.ClothConfig, steps int) *Config {
	cfg := DefaultConfig()
	cfg.Scene = "cloth"
	cfg.Steps = steps
	cfg.Layout.Cloth = c
	return cfg
}

var Presets = map[string]map[string]*Config{
	"rope": {
		"default": rope(topology.DefaultRope(), 600),
		"bridge": rope(topology.RopeConfig{
			Segments: 80, SegmentLength: 8, Origin: geom.V(280, 200),
			StartLocked: true, EndLocked: true,
		}, 900),
		"short": rope(topology.RopeConfig{
			Segments: 20, SegmentLength: 10, Origin: geom.V(600, 10),
			StartLocked: true,
		}, 600),
	},
	"cloth": {
		"default": cloth(topology.DefaultCloth(), 600),
		"curtain": cloth(topology.ClothConfig{
			Columns: 40, Rows: 25, Gap: 20, LockEvery: 1, Origin: geom.V(200, 10),
		}, 600),
		"small": cloth(topology.ClothConfig{
			Columns: 20, Rows: 12, Gap: 20, LockEvery: 5, Origin: geom.V(400, 50),
		}, 400),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	sp, ok := Presets[scene]
	if !ok {
		return nil
	}
	p, ok := sp[name]
	if !ok {
		return nil
	}
	c := *p
	c.Cuts = append([]sim.ScheduledCut(nil), p.Cuts...)
	return &c
}

func ListPresets(scene string) []string {
	sp, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(sp))
	for n := range sp {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func ListScenes() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
