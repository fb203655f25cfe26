package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/verlet/internal/geom"
)

func Xs(track []geom.Vec2) []float64 {
	out := make([]float64, len(track))
	for i, p := range track {
		out[i] = p.X
	}
	return out
}

func Ys(track []geom.Vec2) []float64 {
	out := make([]float64, len(track))
	for i, p := range track {
		out[i] = p.Y
	}
	return out
}

// SwingPeriod estimates the oscillation period of data, in samples scaled by
// dt, from upward crossings of its mean. Fewer than two crossings yield 0.
func SwingPeriod(data []float64, dt float64) float64 {
	if len(data) < 3 {
		return 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	crossings := make([]float64, 0)
	for i := 1; i < len(data); i++ {
		prev, curr := data[i-1]-mean, data[i]-mean
		if prev < 0 && curr >= 0 {
			// Interpolate for better accuracy
			frac := -prev / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			crossings = append(crossings, float64(i-1)+frac)
		}
	}

	if len(crossings) < 2 {
		return 0
	}
	span := crossings[len(crossings)-1] - crossings[0]
	return span / float64(len(crossings)-1) * dt
}

// TrajectoryToASCII plots a tracked path. Rows follow screen coordinates, so
// larger y is drawn lower.
func TrajectoryToASCII(track []geom.Vec2, width, height int) string {
	if len(track) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := track[0].X, track[0].X
	minY, maxY := track[0].Y, track[0].Y
	for _, p := range track {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range track {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := int((p.Y - minY) / rangeY * float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i == 0:
			canvas[row][col] = 'o'
		case i == len(track)-1:
			canvas[row][col] = '@'
		case canvas[row][col] == ' ':
			canvas[row][col] = '·'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
