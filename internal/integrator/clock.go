package integrator

import (
	"math"
	"time"
)

// Clock is the simulation-wide time bookkeeping, updated once per step.
type Clock struct {
	Elapsed  float64
	Steps    int64
	Dt       float64
	LastStep time.Duration
	// Fastest is the top body speed after the most recent step.
	Fastest float64
	window  *Window
}

func NewClock(window int) *Clock {
	return &Clock{window: NewWindow(window)}
}

// Advance records a finished step of dt simulated seconds that took `took`
// of wall-clock time.
func (c *Clock) Advance(dt float64, took time.Duration, fastest float64) {
	c.Dt = dt
	c.Elapsed += dt
	c.Steps++
	c.LastStep = took
	c.Fastest = fastest
	c.window.Push(took)
}

func (c *Clock) Average() time.Duration { return c.window.Average() }

func (c *Clock) Window() *Window { return c.window }

// Conditions returns the policy inputs known to the clock. Closest is left
// at +Inf for the caller to fill in.
func (c *Clock) Conditions() Conditions {
	return Conditions{
		Closest:      math.Inf(1),
		AverageStep:  c.window.Average(),
		HasHistory:   c.window.Len() > 0,
		FastestSpeed: c.Fastest,
	}
}

func (c *Clock) Reset() {
	c.Elapsed, c.Steps, c.Dt, c.LastStep, c.Fastest = 0, 0, 0, 0, 0
	c.window.Reset()
}
