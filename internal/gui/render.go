package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/geom"
)

const anchorRadius = 5

// The window is the stage, so screen and world coordinates coincide.
func toWorld(v rl.Vector2) geom.Vec2 { return geom.V(float64(v.X), float64(v.Y)) }

func toScreen(v geom.Vec2) rl.Vector2 { return rl.NewVector2(float32(v.X), float32(v.Y)) }

func (a *App) drawGrid(spacing int32) {
	w, h := int32(config.StageWidth), int32(config.StageHeight)
	for x := int32(0); x <= w; x += spacing {
		rl.DrawLine(x, 0, x, h, ColGrid)
	}
	for y := int32(0); y <= h; y += spacing {
		rl.DrawLine(0, y, w, y, ColGrid)
	}
}

func (a *App) drawWorld() {
	w := a.Sim.World()

	for _, l := range w.Links {
		if l.Dead {
			continue
		}
		rl.DrawLineEx(toScreen(w.Points[l.A].Pos), toScreen(w.Points[l.B].Pos), 1.5, ColAccent)
	}

	for i, p := range w.Points {
		pos := toScreen(p.Pos)
		switch {
		case p.Locked:
			rl.DrawCircleV(pos, anchorRadius, ColLocked)
		case a.ShowPoints && p.Radius > 0:
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), float32(p.Radius), ColText)
		}
		if i == a.Editor.Selected() {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), float32(p.Radius)+3, ColSelect)
		}
	}

	if from, to, ok := a.Editor.Pending(); ok && w.Paused {
		rl.DrawLineEx(toScreen(from), toScreen(to), 1, ColTextDim)
	}

	if a.Cut.Active() {
		m := rl.GetMousePosition()
		rl.DrawCircleLines(int32(m.X), int32(m.Y), 8, ColCut)
	}
}
