// Package analysis provides post-run tools for rope and cloth motion.
//
//   - [Spectrum] and [DominantFrequency]: sway spectrum of a sampled series
//   - [SwingPeriod]: period from mean-crossings of a tracked coordinate
//   - [TrajectoryToASCII]: path of a tracked point in screen coordinates
//   - [Divergence]: sensitivity to a small displacement of one point
//   - [IterationSweep]: link stretch as a function of solver iterations
//
// # Sway
//
//	res, _ := s.Run(ctx, cfg) // cfg.Track set to a point index
//	xs := analysis.Xs(res.Track)
//	hz := analysis.DominantFrequency(xs, 1/cfg.Dt)
package analysis
