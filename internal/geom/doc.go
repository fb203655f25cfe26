// Package geom provides the 2D vector arithmetic and the segment
// intersection test used by the constraint solver and the cut gesture.
package geom
