// Package tui draws a headless run to a plain terminal while it executes.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/verlet"
	"github.com/san-kum/verlet/internal/viz"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws the world at most frameRate
// times per second.
type LiveRenderer struct {
	out       io.Writer
	title     string
	frameRate int
	lastFrame time.Time
	canvas    *viz.Canvas
	proj      viz.Projection
	now       func() time.Time
}

func NewLiveRenderer(out io.Writer, title string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	c := viz.NewCanvas(width, height)
	return &LiveRenderer{
		out:       out,
		title:     title,
		frameRate: frameRate,
		canvas:    c,
		proj:      viz.NewProjection(c, config.StageWidth, config.StageHeight),
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnStep(w *verlet.World, step int) {
	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	r.canvas.Clear()
	viz.DrawWorld(r.canvas, r.proj, w)
	r.render(w, step)
}

func (r *LiveRenderer) render(w *verlet.World, step int) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  step=%d\n", r.title, step))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  points=%d links=%d/%d\n", len(w.Points), w.LiveLinks(), len(w.Links)))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
