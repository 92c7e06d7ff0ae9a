// Package integrator advances bodies by one time step and decides how long
// that step is.
//
// Updates are semi-implicit Euler: velocity first, then position from the new
// velocity. The quadratic position term comes in two flavours, see [Term].
//
// Step size is chosen by a [Policy]:
//
//   - [FixedTarget]: a constant step, shrunk linearly while two bodies are
//     closer than a proximity range
//   - [RealTime]: measured average compute time times a speed multiplier,
//     reduced while the fastest body exceeds a speed threshold
//
// A [Clock] keeps elapsed simulated time and a bounded [Window] of measured
// step durations feeding the real-time policy.
package integrator
