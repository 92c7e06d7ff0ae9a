package sim

import (
	"runtime"
	"time"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrator"
	"github.com/san-kum/gravsim/internal/telemetry"
)

// Metric accumulates a scalar over observed steps.
type Metric interface {
	Name() string
	Observe(snap telemetry.Snapshot)
	Value() float64
	Reset()
}

// Observer is notified after every step, outside the simulation lock.
type Observer interface {
	OnStep(rep Report, snap telemetry.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(rep Report, snap telemetry.Snapshot)

func (f ObserverFunc) OnStep(rep Report, snap telemetry.Snapshot) { f(rep, snap) }

type Config struct {
	Policy   integrator.Policy
	Term     integrator.Term
	MinForce float64
	Workers  int
	// Window is the number of step durations kept for averaging.
	Window int
	// ValidateState makes Step report non-finite bodies as a *StepError.
	// The degenerate state is applied either way.
	ValidateState bool
	// Now is the wall clock used to time steps.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Policy:   integrator.NewFixedTarget(integrator.DefaultTargetStep),
		Term:     integrator.LegacyTerm,
		MinForce: gravity.DefaultMinForce,
		Workers:  runtime.NumCPU(),
		Window:   integrator.DefaultWindow,
		Now:      time.Now,
	}
}

// Report describes one completed step.
type Report struct {
	Step    int64
	Dt      float64
	Took    time.Duration
	Elapsed float64
	Fastest float64
}

type RunOptions struct {
	// MaxSteps stops the loop after that many steps; zero runs until the
	// context is done.
	MaxSteps int64
	// Interval is the target period between step starts. Steps that take
	// longer start the next one immediately.
	Interval time.Duration
}

type Result struct {
	Steps   int64
	Elapsed float64
	Metrics map[string]float64
	Errors  []error
	Final   telemetry.Snapshot
}
