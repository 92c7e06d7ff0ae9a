package gravity

import (
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
)

// G is the gravitational constant in N·m²/kg².
const G = 6.67430e-11

// DefaultMinForce is the pair force cutoff in newtons.
const DefaultMinForce = 0.1

// minChunk keeps tiny systems on a single goroutine.
const minChunk = 8

// Acceleration is the evaluated pull on one body.
type Acceleration struct {
	Body    *body.Body
	Vec     mgl64.Vec3
	Primary string
}

type Evaluator struct {
	// MinForce drops pairwise contributions below this many newtons.
	// Zero yields the full O(n²) sum.
	MinForce float64
	// Workers bounds the goroutines used by Evaluate. Values <= 1 evaluate inline.
	Workers int
}

func NewEvaluator(minForce float64) *Evaluator {
	return &Evaluator{
		MinForce: minForce,
		Workers:  runtime.NumCPU(),
	}
}

// AccelerationOf returns the net gravitational acceleration on the named body
// and updates its Primary.
func (e *Evaluator) AccelerationOf(reg *body.Registry, name string) (mgl64.Vec3, error) {
	subject, err := reg.Get(name)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	acc, primary := e.accumulate(reg, subject)
	subject.Primary = primary
	return acc, nil
}

// Evaluate computes the acceleration of every non-frozen body against the
// registry as it stands, before anything is moved. Frozen bodies are skipped
// and keep their Primary.
func (e *Evaluator) Evaluate(reg *body.Registry) []Acceleration {
	movable := make([]*body.Body, 0, reg.Len())
	for _, b := range reg.All() {
		if !b.Frozen {
			movable = append(movable, b)
		}
	}

	out := make([]Acceleration, len(movable))
	ParallelFor(len(movable), e.Workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			acc, primary := e.accumulate(reg, movable[i])
			out[i] = Acceleration{Body: movable[i], Vec: acc, Primary: primary}
		}
	})

	for _, a := range out {
		a.Body.Primary = a.Primary
	}
	return out
}

// accumulate only reads Position, Mass and Name of the registered bodies.
func (e *Evaluator) accumulate(reg *body.Registry, subject *body.Body) (mgl64.Vec3, string) {
	var force mgl64.Vec3
	primary, strongest := subject.Name, 0.0

	for name, target := range reg.All() {
		if name == subject.Name {
			continue
		}

		d := target.Position.Sub(subject.Position)
		r2 := d.Dot(d)
		f := G * subject.Mass * target.Mass / r2
		if f < e.MinForce {
			continue
		}

		if f > strongest {
			strongest = f
			primary = name
		}

		force = force.Add(d.Mul(f / math.Sqrt(r2)))
	}

	m := subject.Mass
	return mgl64.Vec3{force[0] / m, force[1] / m, force[2] / m}, primary
}

// Force returns the scalar attraction between two bodies.
func Force(a, b *body.Body) float64 {
	d := b.Position.Sub(a.Position)
	return G * a.Mass * b.Mass / d.Dot(d)
}
