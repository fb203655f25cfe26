// Package verlet implements the constraint-based point/link simulation.
//
// A [World] owns a flat arena of [Point] values and a list of [Link]
// distance constraints that refer to points by index. One call to
// [World.Step] relaxes every live link [SolveIterations] times and then
// integrates every point once:
//
//	w := verlet.NewWorld()
//	a := w.AddPoint(geom.V(0, 0), true)
//	b := w.AddPoint(geom.V(10, 0), false)
//	w.AddLink(a, b)
//	w.Step(dt)
//
// Integration is position based: velocity is implied by the difference
// between the current and previous position. Gravity is added as a fixed
// impulse per step and is not scaled by dt, so the apparent speed of the
// simulation follows the tick rate of the caller.
//
// # Thread Safety
//
// A World is not safe for concurrent use. Step and Cut mutate the arena in
// place and must be called from a single control flow.
package verlet
