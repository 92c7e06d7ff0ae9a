package integrator

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Term selects the quadratic coefficient of the position update.
type Term int

const (
	// LegacyTerm adds ½·a·Δt. Trajectories recorded by earlier versions of
	// the engine were produced with it.
	LegacyTerm Term = iota
	// ExactTerm adds ½·a·Δt².
	ExactTerm
)

func (t Term) String() string {
	switch t {
	case LegacyTerm:
		return "legacy"
	case ExactTerm:
		return "exact"
	default:
		return fmt.Sprintf("term(%d)", int(t))
	}
}

func ParseTerm(s string) (Term, error) {
	switch s {
	case "", "legacy":
		return LegacyTerm, nil
	case "exact":
		return ExactTerm, nil
	default:
		return LegacyTerm, fmt.Errorf("unknown position term: %s", s)
	}
}

// minChunk matches the evaluator fan-out granularity.
const minChunk = 8

type Integrator struct {
	Term    Term
	Workers int
}

func New(term Term, workers int) *Integrator {
	return &Integrator{Term: term, Workers: workers}
}

// Apply moves one body by dt under acceleration a. Frozen bodies are left alone.
func (in *Integrator) Apply(b *body.Body, a mgl64.Vec3, dt float64) {
	if b.Frozen {
		return
	}

	// v = v0 + at
	b.Velocity = b.Velocity.Add(a.Mul(dt))

	q := dt
	if in.Term == ExactTerm {
		q = dt * dt
	}
	// x = x0 + vt + ½aq, with v already updated
	b.Position = b.Position.Add(b.Velocity.Mul(dt)).Add(a.Mul(0.5 * q))
}

// Step applies every evaluated acceleration. Each body is written by exactly
// one worker.
func (in *Integrator) Step(accs []gravity.Acceleration, dt float64) {
	gravity.ParallelFor(len(accs), in.Workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			in.Apply(accs[i].Body, accs[i].Vec, dt)
		}
	})
}

// FastestSpeed returns the largest speed among all bodies in reg.
func FastestSpeed(reg *body.Registry) float64 {
	fastest := 0.0
	for _, b := range reg.All() {
		if s := b.Speed(); s > fastest {
			fastest = s
		}
	}
	return fastest
}

// ClosestApproach returns the smallest separation between a non-frozen body
// and any other body, or +Inf when no such pair exists.
func ClosestApproach(reg *body.Registry) float64 {
	closest := math.Inf(1)
	n := reg.Len()
	for i := 0; i < n; i++ {
		a := reg.At(i)
		for j := i + 1; j < n; j++ {
			b := reg.At(j)
			if a.Frozen && b.Frozen {
				continue
			}
			if d := b.Position.Sub(a.Position).Len(); d < closest {
				closest = d
			}
		}
	}
	return closest
}
