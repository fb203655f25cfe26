package viz

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("Clear left a pixel set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x < 10; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("pixel %d not set", x)
		}
	}
	if c.IsSet(0, 1) {
		t.Error("line leaked into the next row")
	}
}

func TestProjection(t *testing.T) {
	c := NewCanvas(60, 20) // 120 x 80 sub-pixels
	p := NewProjection(c, 1200, 800)
	if p.Scale != 0.1 {
		t.Fatalf("scale = %f, want 0.1", p.Scale)
	}

	x, y := p.ToPixel(geom.V(600, 400))
	if x != 60 || y != 40 {
		t.Errorf("ToPixel = %d,%d", x, y)
	}
	back := p.ToWorld(x, y)
	if back.Dist(geom.V(605, 405)) > 1e-9 {
		t.Errorf("ToWorld = %v", back)
	}
}

func TestDrawWorld(t *testing.T) {
	w := verlet.NewWorld()
	w.AddPoint(geom.V(0, 100), true)
	w.AddPoint(geom.V(500, 100), false)
	w.AddPoint(geom.V(500, 300), false)
	w.AddLink(0, 1)
	w.AddLink(1, 2)
	w.Links[1].Dead = true

	c := NewCanvas(60, 20)
	DrawWorld(c, NewProjection(c, 1200, 800), w)

	if !c.IsSet(25, 10) {
		t.Error("live link not drawn")
	}
	if c.IsSet(50, 20) {
		t.Error("dead link drawn")
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sandbox(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scene = "empty"
	m, err := NewModel(cfg, "", nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func TestModelKeys(t *testing.T) {
	m := sandbox(t)
	if !m.sim.World().Paused {
		t.Fatal("sandbox should start paused")
	}

	next, _ := m.Update(key(" "))
	m = next.(Model)
	if m.sim.World().Paused {
		t.Error("space should resume")
	}

	next, _ = m.Update(key("c"))
	m = next.(Model)
	if !m.cutMode {
		t.Error("c should arm cutting")
	}

	next, _ = m.Update(key("2"))
	m = next.(Model)
	if m.cfg.Scene != "cloth" || len(m.sim.World().Points) != 56*30 {
		t.Errorf("2 should load the cloth, got %s with %d points", m.cfg.Scene, len(m.sim.World().Points))
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestModelEditWithMouse(t *testing.T) {
	m := sandbox(t)

	press := tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	release := tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}

	next, _ := m.Update(press)
	m = next.(Model)
	next, _ = m.Update(release)
	m = next.(Model)

	w := m.sim.World()
	if len(w.Points) != 1 {
		t.Fatalf("expected one placed point, got %d", len(w.Points))
	}

	// drag from the placed point to a new spot
	next, _ = m.Update(press)
	m = next.(Model)
	next, _ = m.Update(tea.MouseMsg{X: 30, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(Model)

	w = m.sim.World()
	if len(w.Points) != 2 || len(w.Links) != 1 {
		t.Errorf("points = %d, links = %d", len(w.Points), len(w.Links))
	}

	// outside the canvas
	next, _ = m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if len(m.sim.World().Points) != 2 {
		t.Error("release on the padding should be ignored")
	}
}

func TestModelCutWithMouse(t *testing.T) {
	cfg := config.GetPreset("cloth", "small")
	m, err := NewModel(cfg, "small", nil)
	if err != nil {
		t.Fatal(err)
	}
	severed := 0
	m = m.OnSever(func(n int) { severed += n })

	next, _ := m.Update(key("c"))
	m = next.(Model)

	// at the default size a cell spans about 17 world units across and 33
	// down; this column sits between the cloth columns at x=580 and x=600
	// and the drag runs from above the top row to y=154
	col := padLeft + 35
	steps := []tea.MouseMsg{
		{X: col, Y: padTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		{X: col, Y: padTop + 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		{X: col, Y: padTop + 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	}
	for _, msg := range steps {
		next, _ = m.Update(msg)
		m = next.(Model)
	}

	if severed != 6 || m.severed != 6 {
		t.Errorf("severed = %d (model %d), want 6", severed, m.severed)
	}
	if m.cut.Active() {
		t.Error("gesture should end on release")
	}
}

func TestModelView(t *testing.T) {
	m := sandbox(t)
	next, _ := m.Update(TickMsg{})
	m = next.(Model)

	out := m.View()
	for _, want := range []string{"EMPTY", "EDIT", "Points"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSaveGIF(t *testing.T) {
	m := sandbox(t)
	m.captureFrame()
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := m.saveGIF(path); err != nil {
		t.Fatalf("saveGIF: %v", err)
	}
}
