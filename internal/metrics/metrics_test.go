package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

func pair(stretchTo float64) *verlet.World {
	w := verlet.NewWorld()
	w.AddPoint(geom.V(0, 0), true)
	w.AddPoint(geom.V(10, 0), false)
	w.AddLink(0, 1)
	w.Points[1].Pos = geom.V(stretchTo, 0)
	return w
}

func TestStretch(t *testing.T) {
	m := NewStretch()

	m.Observe(pair(12))
	if math.Abs(m.Value()-0.2) > 1e-9 {
		t.Errorf("expected stretch 0.2, got %f", m.Value())
	}

	m.Observe(pair(10))
	if m.Value() != 0 {
		t.Errorf("expected stretch 0, got %f", m.Value())
	}
	if math.Abs(m.Peak()-0.2) > 1e-9 {
		t.Errorf("expected peak 0.2, got %f", m.Peak())
	}

	m.Reset()
	if m.Value() != 0 || m.Peak() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStretchIgnoresDeadAndZeroRest(t *testing.T) {
	w := pair(30)
	w.Links[0].Dead = true
	w.AddPoint(geom.V(50, 0), false)
	w.AddPoint(geom.V(50, 0), false)
	w.AddLink(2, 3)
	w.Points[3].Pos = geom.V(60, 0)

	m := NewStretch()
	m.Observe(w)
	if m.Value() != 0 {
		t.Errorf("expected 0, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(0.1)
	if m.Value() != 1 {
		t.Error("expected 1 with no samples")
	}

	m.Observe(pair(10))
	m.Observe(pair(10.5))
	m.Observe(pair(15))
	m.Observe(pair(10))

	if math.Abs(m.Value()-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", m.Value())
	}
}

func TestStretchDiverged(t *testing.T) {
	w := pair(12)
	w.Points[1].Pos = geom.V(math.NaN(), 0)

	m := NewStretch()
	m.Observe(w)
	if !math.IsInf(m.Value(), 1) {
		t.Errorf("expected +Inf for a NaN point, got %f", m.Value())
	}
	if !math.IsInf(m.Peak(), 1) {
		t.Errorf("expected +Inf peak, got %f", m.Peak())
	}

	s := NewStability(0.1)
	s.Observe(pair(10))
	s.Observe(w)
	if s.Value() != 0.5 {
		t.Errorf("expected the diverged step to count as a violation, got %f", s.Value())
	}
}

func TestSevered(t *testing.T) {
	w := verlet.NewWorld()
	for i := 0; i < 4; i++ {
		w.AddPoint(geom.V(float64(i)*10, 0), false)
		if i > 0 {
			w.AddLink(i-1, i)
		}
	}
	w.Links[0].Dead = true
	w.Links[2].Dead = true

	m := NewSevered()
	m.Observe(w)
	if m.Value() != 2 {
		t.Errorf("expected 2, got %f", m.Value())
	}
}

func TestMotion(t *testing.T) {
	w := verlet.NewWorld()
	w.AddPoint(geom.V(0, 0), true)
	w.AddPoint(geom.V(0, 0), false)
	w.AddPoint(geom.V(0, 0), false)

	w.Points[1].Prev, w.Points[1].HasPrev = geom.V(0, -3), true
	w.Points[1].Pos = geom.V(0, 1)
	w.Points[2].Prev, w.Points[2].HasPrev = geom.V(0, 0), true

	m := NewMotion()
	m.Observe(w)
	// velocities (0,4) and (0,0)
	if math.Abs(m.Value()-8) > 1e-9 {
		t.Errorf("expected 8, got %f", m.Value())
	}
}

func TestSag(t *testing.T) {
	tests := []struct {
		name string
		pts  []verlet.Point
		want float64
	}{
		{"no anchors", []verlet.Point{verlet.NewPoint(geom.V(0, 50), false)}, 0},
		{"no free points", []verlet.Point{verlet.NewPoint(geom.V(0, 50), true)}, 0},
		{
			"hanging",
			[]verlet.Point{
				verlet.NewPoint(geom.V(0, 10), true),
				verlet.NewPoint(geom.V(0, 30), true),
				verlet.NewPoint(geom.V(0, 45), false),
				verlet.NewPoint(geom.V(0, 80), false),
			},
			70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := verlet.NewWorld()
			w.Points = tt.pts
			m := NewSag()
			m.Observe(w)
			if m.Value() != tt.want {
				t.Errorf("Sag = %f, want %f", m.Value(), tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	all := Default()
	if len(all) != len(Names()) {
		t.Fatalf("Default() = %d metrics, want %d", len(all), len(Names()))
	}
	for _, name := range Names() {
		m, err := ByName(name)
		if err != nil || m.Name() != name {
			t.Errorf("ByName(%q) = %v, %v", name, m, err)
		}
	}
	if _, err := ByName("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
