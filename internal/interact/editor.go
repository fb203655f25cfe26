// Package interact turns pointer input into topology edits and cut
// segments. It reads and writes world state through the same exported
// fields the renderers use and keeps no state inside the points themselves.
package interact

import (
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

// Editor builds ad hoc topologies: a press on a point selects it, and the
// release either links it to the point under the cursor or drops a new
// point there linked to the selection. A release with nothing selected just
// places a point.
type Editor struct {
	world    *verlet.World
	selected int
	cursor   geom.Vec2
	Enabled  bool
}

func NewEditor(w *verlet.World) *Editor {
	return &Editor{world: w, selected: -1, Enabled: true}
}

// SetWorld points the editor at a new world and drops the selection.
func (e *Editor) SetWorld(w *verlet.World) {
	e.world = w
	e.selected = -1
}

func (e *Editor) Selected() int { return e.selected }

// Press selects the point under pos, if any.
func (e *Editor) Press(pos geom.Vec2) {
	e.cursor = pos
	if !e.Enabled {
		return
	}
	e.selected = e.world.PointAt(pos)
}

// Move tracks the cursor for the pending link preview.
func (e *Editor) Move(pos geom.Vec2) { e.cursor = pos }

// Release finishes the gesture started by Press. lock marks a newly placed
// point as an anchor. It returns the index of the point created, or -1.
func (e *Editor) Release(pos geom.Vec2, lock bool) (int, error) {
	e.cursor = pos
	if !e.Enabled {
		return -1, nil
	}

	sel := e.selected
	e.selected = -1

	if sel < 0 {
		return e.world.AddPoint(pos, lock), nil
	}

	if other := e.world.PointAt(pos); other >= 0 {
		if other == sel {
			return -1, nil
		}
		_, err := e.world.AddLink(sel, other)
		return -1, err
	}

	idx := e.world.AddPoint(pos, lock)
	if _, err := e.world.AddLink(idx, sel); err != nil {
		return idx, err
	}
	return idx, nil
}

// Pending returns the preview segment from the selected point to the cursor.
func (e *Editor) Pending() (from, to geom.Vec2, ok bool) {
	if e.selected < 0 || e.selected >= len(e.world.Points) {
		return geom.Vec2{}, geom.Vec2{}, false
	}
	return e.world.Points[e.selected].Pos, e.cursor, true
}
