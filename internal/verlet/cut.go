package verlet

import "github.com/san-kum/verlet/internal/geom"

// Cut severs every live link crossed by the segment start-end and returns
// how many links it severed. Links already dead are skipped.
//
// Fast pointer motion is the caller's concern: Cut tests only the segment it
// is given, so gestures must be fed as consecutive samples.
func Cut(start, end geom.Vec2, points []Point, links []Link) int {
	severed := 0
	for i := range links {
		l := &links[i]
		if l.Dead {
			continue
		}
		a, b := l.Segment(points)
		if geom.SegmentsIntersect(start, end, a, b) {
			l.Dead = true
			severed++
		}
	}
	return severed
}
