package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/telemetry"
)

// TotalEnergy is kinetic plus pairwise gravitational potential energy in joules.
func TotalEnergy(snap telemetry.Snapshot) float64 {
	ke, pe := 0.0, 0.0
	bodies := snap.Bodies

	for i, a := range bodies {
		ke += 0.5 * a.Mass * a.Velocity.Dot(a.Velocity)

		for _, b := range bodies[i+1:] {
			r := b.Position.Sub(a.Position).Len()
			pe -= gravity.G * a.Mass * b.Mass / r
		}
	}

	return ke + pe
}

// EnergyDrift tracks the largest relative departure from the first observed
// total energy.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(snap telemetry.Snapshot) {
	energy := TotalEnergy(snap)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
