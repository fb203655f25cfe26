package geom

import "testing"

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 Vec2
		want           bool
	}{
		{"crossing diagonals", V(0, 0), V(10, 10), V(0, 10), V(10, 0), true},
		{"parallel", V(0, 0), V(1, 0), V(0, 1), V(1, 1), false},
		{"shared endpoint", V(0, 0), V(5, 5), V(5, 0), V(5, 5), true},
		{"collinear overlap", V(0, 0), V(10, 0), V(5, 0), V(15, 0), false},
		{"disjoint", V(0, 0), V(1, 1), V(3, 0), V(4, -1), false},
		{"t out of range", V(0, 0), V(1, 0), V(5, -1), V(5, 1), false},
		{"vertical cut through horizontal", V(15, -5), V(15, 5), V(10, 0), V(20, 0), true},
		{"zero length cut", V(2, 2), V(2, 2), V(0, 0), V(4, 4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsIntersect(tt.a1, tt.a2, tt.b1, tt.b2); got != tt.want {
				t.Errorf("SegmentsIntersect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentsIntersect_Symmetric(t *testing.T) {
	a1, a2 := V(0, 0), V(10, 10)
	b1, b2 := V(0, 10), V(10, 0)

	if SegmentsIntersect(a1, a2, b1, b2) != SegmentsIntersect(b1, b2, a1, a2) {
		t.Error("intersection should not depend on argument order")
	}
}
