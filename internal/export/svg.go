// Package export writes worlds and stored runs to files meant for people:
// SVG snapshots and HTML reports.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/verlet"
)

type SVGOptions struct {
	Width, Height int
	Background    string
	Stroke        string
	Anchor        string
	ShowPoints    bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1200,
		Height:     800,
		Background: "#0a0a0a",
		Stroke:     "#b4b4b4",
		Anchor:     "#e65a46",
		ShowPoints: true,
	}
}

// WorldToSVG draws live links as lines and points as circles in world
// coordinates. Anchors are filled; free points are outlined when they have a
// radius.
func WorldToSVG(w *verlet.World, o SVGOptions) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, o.Width, o.Height, o.Width, o.Height, o.Background))

	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1.5">
`, o.Stroke))
	for _, l := range w.Links {
		if l.Dead {
			continue
		}
		a, b := w.Points[l.A].Pos, w.Points[l.B].Pos
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, a.X, a.Y, b.X, b.Y))
	}
	sb.WriteString("</g>\n")

	if o.ShowPoints {
		sb.WriteString(fmt.Sprintf(`<g fill="none" stroke="%s">
`, o.Stroke))
		for _, p := range w.Points {
			if p.Locked || p.Radius <= 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, p.Pos.X, p.Pos.Y, p.Radius))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, o.Anchor))
	for _, p := range w.Points {
		if !p.Locked {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5"/>
`, p.Pos.X, p.Pos.Y))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG fits a tracked point's path into width x height. The
// y axis keeps the world's downward orientation.
func TrajectoryToSVG(points []geom.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
