// Package hud is the terminal front end for a running simulation. A
// bubbletea program drives Simulation.Step on every tick and renders a
// top-down braille view of the bodies with their trails, the step timing
// lines, and the tunables that can be adjusted while running.
package hud
