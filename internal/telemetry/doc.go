// Package telemetry derives read-only views of the simulation for HUDs,
// renderers, metrics and recorders. Nothing here feeds back into the physics.
package telemetry
