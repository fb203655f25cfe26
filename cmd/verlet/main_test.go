package main

import (
	"testing"

	"github.com/san-kum/verlet/internal/geom"
)

func TestParseCut(t *testing.T) {
	c, err := parseCut("30: 100,200 ,300,400")
	if err != nil {
		t.Fatal(err)
	}
	if c.Step != 30 || c.From != geom.V(100, 200) || c.To != geom.V(300, 400) {
		t.Errorf("unexpected cut %+v", c)
	}
}

func TestParseCutErrors(t *testing.T) {
	for _, spec := range []string{
		"100,200,300,400",
		"x:1,2,3,4",
		"5:1,2,3",
		"5:1,2,3,y",
	} {
		if _, err := parseCut(spec); err == nil {
			t.Errorf("%q: expected error", spec)
		}
	}
}

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"iterations=5,10", "dt = 0.01"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[1] != "dt" {
		t.Fatalf("unexpected names %v", names)
	}
	if len(ranges[0]) != 2 || ranges[0][1] != 10 || ranges[1][0] != 0.01 {
		t.Errorf("unexpected ranges %v", ranges)
	}
	if _, _, err := parseGrid([]string{"iterations"}); err == nil {
		t.Error("expected error without '='")
	}
}
