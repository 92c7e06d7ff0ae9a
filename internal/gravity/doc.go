// Package gravity evaluates pairwise Newtonian attraction between registered bodies.
//
// For a subject body the [Evaluator] sums F = G·m₁·m₂/r² over every other body,
// ignores contributions weaker than a configurable minimum force, and records
// the strongest single attractor as the body's primary. The cutoff is
// one-directional: suppressing the pull of B on A leaves the pull of A on B
// to be judged on its own.
//
// Coincident bodies are not guarded against. Their acceleration comes out NaN
// and propagates into the simulation state; see [body.Registry.Degenerate].
package gravity
