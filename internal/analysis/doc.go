// Package analysis extracts orbital characteristics from recorded telemetry.
//
// Recorded frames are not evenly spaced in simulated time when the step
// size adapts, so series are resampled onto a uniform grid before the
// spectrum is taken.
package analysis
