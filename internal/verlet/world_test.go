package verlet

import (
	"errors"
	"testing"

	"github.com/san-kum/verlet/internal/geom"
)

func chain(n int, spacing float64) *World {
	w := NewWorld()
	for i := 0; i < n; i++ {
		w.AddPoint(geom.V(float64(i)*spacing, 0), i == 0)
		if i > 0 {
			w.AddLink(i-1, i)
		}
	}
	return w
}

func TestWorld_AddLink(t *testing.T) {
	w := NewWorld()
	a := w.AddPoint(geom.V(0, 0), false)
	b := w.AddPoint(geom.V(3, 4), false)

	idx, err := w.AddLink(a, b)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if w.Links[idx].Rest != 5 {
		t.Errorf("rest = %v, want 5", w.Links[idx].Rest)
	}

	tests := []struct {
		name string
		a, b int
		want error
	}{
		{"self", a, a, ErrSelfLink},
		{"negative", -1, b, ErrPointIndex},
		{"past end", a, 2, ErrPointIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := w.AddLink(tt.a, tt.b); !errors.Is(err, tt.want) {
				t.Errorf("AddLink(%d, %d) error = %v, want %v", tt.a, tt.b, err, tt.want)
			}
		})
	}
	if len(w.Links) != 1 {
		t.Errorf("failed AddLink calls should not append, have %d links", len(w.Links))
	}
}

func TestWorld_StepPaused(t *testing.T) {
	w := chain(4, 10)
	w.Points[2].Pos = geom.V(50, 50)
	before := w.Clone()

	w.Paused = true
	for i := 0; i < 5; i++ {
		w.Step(16)
	}

	for i := range w.Points {
		if w.Points[i] != before.Points[i] {
			t.Fatalf("point %d changed while paused: %+v -> %+v", i, before.Points[i], w.Points[i])
		}
	}
}

func TestWorld_LockInvariance(t *testing.T) {
	w := chain(6, 10)
	anchor := w.Points[0].Pos

	for i := 0; i < 200; i++ {
		w.Step(16)
		if w.Points[0].Pos != anchor {
			t.Fatalf("step %d: anchor moved to %v", i, w.Points[0].Pos)
		}
	}
}

func TestWorld_CutIdempotent(t *testing.T) {
	w := chain(4, 10)
	from, to := geom.V(15, -5), geom.V(15, 5)

	if n := w.Cut(from, to); n != 1 {
		t.Fatalf("first cut severed %d links, want 1", n)
	}
	snapshot := w.Clone()

	if n := w.Cut(from, to); n != 0 {
		t.Errorf("second cut severed %d links, want 0", n)
	}
	for i := range w.Links {
		if w.Links[i] != snapshot.Links[i] {
			t.Errorf("link %d changed on repeated cut", i)
		}
	}
	if got := w.LiveLinks(); got != 2 {
		t.Errorf("live links = %d, want 2", got)
	}
}

func TestWorld_RelaxInInsertionOrder(t *testing.T) {
	w := NewWorld()
	w.Gravity = geom.Vec2{}
	w.Iterations = 1
	for i := 0; i < 3; i++ {
		w.AddPoint(geom.V(float64(i)*10, 0), false)
	}
	w.AddLink(0, 1)
	w.AddLink(1, 2)
	w.Points[1].Pos = geom.V(16, 0)

	w.Step(1)

	// link 0-1 first, then 1-2 sees the moved middle point
	want := []float64{3, 11.5, 21.5}
	for i, x := range want {
		if got := w.Points[i].Pos; got != geom.V(x, 0) {
			t.Errorf("point %d = %v, want (%v, 0)", i, got, x)
		}
	}
}

func TestWorld_DeadLinkExcludedFromRelax(t *testing.T) {
	w := NewWorld()
	w.AddPoint(geom.V(0, 0), true)
	w.AddPoint(geom.V(10, 0), false)
	w.AddLink(0, 1)
	w.Links[0].Dead = true
	w.Points[1].Pos = geom.V(40, 0)

	w.relaxAll()
	if w.Points[1].Pos != geom.V(40, 0) {
		t.Errorf("dead link moved its endpoint to %v", w.Points[1].Pos)
	}
}

func TestWorld_Reset(t *testing.T) {
	w := chain(5, 10)
	w.Gravity = geom.V(0, 2)
	w.Reset()

	if len(w.Points) != 0 || len(w.Links) != 0 {
		t.Errorf("reset left %d points and %d links", len(w.Points), len(w.Links))
	}
	if w.Gravity != geom.V(0, 2) {
		t.Error("reset should keep settings")
	}
}

func TestWorld_Clone(t *testing.T) {
	w := chain(3, 10)
	c := w.Clone()
	c.Points[1].Pos = geom.V(99, 99)
	c.Links[0].Dead = true

	if w.Points[1].Pos == geom.V(99, 99) || w.Links[0].Dead {
		t.Error("clone shares storage with the original")
	}
}

func TestWorld_PointAt(t *testing.T) {
	w := chain(3, 30)
	if got := w.PointAt(geom.V(31, 2)); got != 1 {
		t.Errorf("PointAt = %d, want 1", got)
	}
	if got := w.PointAt(geom.V(15, 0)); got != -1 {
		t.Errorf("PointAt = %d, want -1", got)
	}
}

func TestWorld_Bounds(t *testing.T) {
	w := NewWorld()
	if lo, hi := w.Bounds(); lo != (geom.Vec2{}) || hi != (geom.Vec2{}) {
		t.Errorf("empty bounds = %v %v", lo, hi)
	}
	w.AddPoint(geom.V(-1, 5), false)
	w.AddPoint(geom.V(4, -2), false)
	lo, hi := w.Bounds()
	if lo != geom.V(-1, -2) || hi != geom.V(4, 5) {
		t.Errorf("bounds = %v %v, want (-1,-2) (4,5)", lo, hi)
	}
}

func TestWorld_ParallelIntegrationMatchesSequential(t *testing.T) {
	w := NewWorld()
	for i := 0; i < parallelThreshold*2; i++ {
		w.AddPoint(geom.V(float64(i%97), float64(i%13)), i%50 == 0)
	}
	ref := w.Clone()

	for step := 0; step < 3; step++ {
		w.integrateAll(16)
		for i := range ref.Points {
			ref.Points[i].Integrate(16, ref.Gravity)
		}
	}

	for i := range w.Points {
		if w.Points[i] != ref.Points[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, w.Points[i], ref.Points[i])
		}
	}
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		seen := make([]int, n)
		ParallelFor(n, 10, func(start, end int) {
			for i := start; i < end; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
	}
}
