package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/telemetry"
)

// Momentum is the mass-weighted velocity sum over all bodies.
func Momentum(snap telemetry.Snapshot) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range snap.Bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// MomentumDrift records the largest |p - p0| seen, in kg·m/s, where p0 is the
// first observed total momentum. Frozen bodies exert forces without reacting,
// so the metric is only meaningful for systems without them.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{
		name: "momentum_drift",
	}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(snap telemetry.Snapshot) {
	p := Momentum(snap)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

