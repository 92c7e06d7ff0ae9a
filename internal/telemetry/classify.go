package telemetry

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Class labels a body's relation to its primary, used for trajectory coloring.
type Class int

const (
	Frozen Class = iota
	// Unattached bodies found no attractor above the force cutoff.
	Unattached
	Bound
	Escaping
)

func (c Class) String() string {
	switch c {
	case Frozen:
		return "frozen"
	case Unattached:
		return "unattached"
	case Bound:
		return "bound"
	case Escaping:
		return "escaping"
	default:
		return "unknown"
	}
}

// Classify labels subject against primary, which may be nil when the
// primary name does not resolve.
func Classify(subject, primary *body.Body) Class {
	if subject.Frozen {
		return Frozen
	}
	if primary == nil || primary.Name == subject.Name {
		return Unattached
	}
	if IsEscaping(subject, primary) {
		return Escaping
	}
	return Bound
}

// IsEscaping reports |v_rel|² > 2·G·M/|d|, with v_rel the subject velocity
// relative to the primary and d the separation.
func IsEscaping(subject, primary *body.Body) bool {
	v := subject.Velocity.Sub(primary.Velocity)
	d := primary.Position.Sub(subject.Position)
	return v.Dot(v) > 2*gravity.G*primary.Mass/d.Len()
}

// EscapeVelocity is sqrt(2GM/r).
func EscapeVelocity(mass, r float64) float64 {
	return math.Sqrt(2 * gravity.G * mass / r)
}
