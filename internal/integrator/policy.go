package integrator

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultTargetStep   = 5 * 60.0
	DefaultMinFraction  = 1.0 / 12
	DefaultMultiplier   = 3600.0
	DefaultMaxReduction = 0.9
	DefaultFallback     = time.Millisecond
)

// Conditions is what a policy may look at when sizing the next step.
type Conditions struct {
	// Closest is the smallest body separation, +Inf when not measured.
	Closest      float64
	AverageStep  time.Duration
	HasHistory   bool
	FastestSpeed float64
}

// Policy decides the next step size in simulated seconds.
type Policy interface {
	Name() string
	Next(c Conditions) float64
}

// ProximityAware policies need Conditions.Closest filled in.
type ProximityAware interface {
	UsesProximity() bool
}

// FixedTarget steps by Target seconds, scaling down linearly toward
// Target·MinFraction as the closest pair approaches zero separation inside
// ProximityRange. A zero range disables the scaling.
type FixedTarget struct {
	Target         float64
	ProximityRange float64
	MinFraction    float64
}

func NewFixedTarget(target float64) *FixedTarget {
	return &FixedTarget{Target: target, MinFraction: DefaultMinFraction}
}

func (p *FixedTarget) Name() string { return "fixed" }

func (p *FixedTarget) UsesProximity() bool { return p.ProximityRange > 0 }

func (p *FixedTarget) Next(c Conditions) float64 {
	if p.ProximityRange > 0 && c.Closest < p.ProximityRange {
		return math.Max(c.Closest/p.ProximityRange*p.Target, p.Target*p.MinFraction)
	}
	return p.Target
}

// RealTime sizes steps so that simulated time runs Multiplier times faster
// than the measured compute time, slowing down for fast bodies.
type RealTime struct {
	Multiplier float64
	// Speed limiting: the reduction grows linearly from 0 at SpeedThreshold
	// to MaxReduction at SpeedCap and stays there beyond it.
	SpeedThreshold float64
	SpeedCap       float64
	MaxReduction   float64
	// Fallback stands in for the average before any step was measured.
	Fallback time.Duration
}

func NewRealTime(multiplier float64) *RealTime {
	return &RealTime{
		Multiplier:     multiplier,
		SpeedThreshold: 5000,
		SpeedCap:       20000,
		MaxReduction:   DefaultMaxReduction,
		Fallback:       DefaultFallback,
	}
}

func (p *RealTime) Name() string { return "realtime" }

func (p *RealTime) Next(c Conditions) float64 {
	avg := c.AverageStep
	if !c.HasHistory {
		avg = p.Fallback
	}
	dt := avg.Seconds() * p.Multiplier
	return dt * (1 - p.Reduction(c.FastestSpeed))
}

// Reduction returns the fraction removed from the step at the given speed.
func (p *RealTime) Reduction(speed float64) float64 {
	if p.MaxReduction <= 0 || speed <= p.SpeedThreshold {
		return 0
	}
	if p.SpeedCap <= p.SpeedThreshold {
		return p.MaxReduction
	}
	r := (speed - p.SpeedThreshold) / (p.SpeedCap - p.SpeedThreshold) * p.MaxReduction
	return math.Min(r, p.MaxReduction)
}

// ParseMode maps a mode name to a policy with default settings.
func ParseMode(mode string) (Policy, error) {
	switch mode {
	case "", "fixed":
		return NewFixedTarget(DefaultTargetStep), nil
	case "realtime":
		return NewRealTime(DefaultMultiplier), nil
	default:
		return nil, fmt.Errorf("unknown timestep mode: %s", mode)
	}
}
