package verlet

import "errors"

// Topology construction errors. The numeric operations never fail.
var (
	// ErrPointIndex indicates a link endpoint outside the point arena.
	ErrPointIndex = errors.New("verlet: point index out of range")

	// ErrSelfLink indicates a link whose endpoints are the same point.
	ErrSelfLink = errors.New("verlet: link endpoints must differ")
)
