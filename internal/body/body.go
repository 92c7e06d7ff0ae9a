package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultRadius = 1.0
	DefaultMass   = 10.0
)

// DefaultColor is the reference yellow (0xffff00).
var DefaultColor = colorful.Color{R: 1, G: 1, B: 0}

// Body is a point mass. Position and velocity are in SI units.
type Body struct {
	Name     string
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
	Radius   float64
	Color    colorful.Color
	Frozen   bool
	// Primary names the body exerting the strongest force on this one as of
	// the last evaluation. It is the body's own name until one is found.
	Primary string
}

func (b *Body) Speed() float64 { return b.Velocity.Len() }

func (b *Body) Momentum() mgl64.Vec3 { return b.Velocity.Mul(b.Mass) }

// IsFinite reports whether position and velocity hold no NaN or Inf.
func (b *Body) IsFinite() bool {
	return finiteVec(b.Position) && finiteVec(b.Velocity)
}

func finiteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
