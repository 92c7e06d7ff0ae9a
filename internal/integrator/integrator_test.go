package integrator

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

func newBody(t *testing.T, reg *body.Registry, opts ...body.Option) *body.Body {
	t.Helper()
	name, err := reg.Create(opts...)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := reg.Get(name)
	return b
}

func TestApplyTerms(t *testing.T) {
	a := mgl64.Vec3{2, 0, -1}
	dt := 10.0

	tests := []struct {
		term Term
		pos  mgl64.Vec3
	}{
		// v = (1,1,0) + a*10 = (21,1,-10); x = v*10 + 0.5*a*q
		{LegacyTerm, mgl64.Vec3{210 + 10, 10, -100 - 5}},
		{ExactTerm, mgl64.Vec3{210 + 100, 10, -100 - 50}},
	}

	for _, tt := range tests {
		t.Run(tt.term.String(), func(t *testing.T) {
			reg := body.NewRegistry()
			b := newBody(t, reg, body.WithVelocity(1, 1, 0))

			New(tt.term, 1).Apply(b, a, dt)

			wantVel := mgl64.Vec3{21, 1, -10}
			if b.Velocity != wantVel {
				t.Errorf("velocity = %v, want %v", b.Velocity, wantVel)
			}
			if b.Position != tt.pos {
				t.Errorf("position = %v, want %v", b.Position, tt.pos)
			}
		})
	}
}

func TestApplyUsesNewVelocity(t *testing.T) {
	reg := body.NewRegistry()
	b := newBody(t, reg)

	New(ExactTerm, 1).Apply(b, mgl64.Vec3{1, 0, 0}, 1)

	// explicit Euler would leave x at 0.5; semi-implicit gives 1 + 0.5
	if b.Position[0] != 1.5 {
		t.Errorf("x = %v, want 1.5", b.Position[0])
	}
}

func TestApplyFrozen(t *testing.T) {
	reg := body.NewRegistry()
	b := newBody(t, reg, body.WithFrozen(true), body.WithPosition(1, 2, 3), body.WithVelocity(4, 5, 6))

	New(LegacyTerm, 1).Apply(b, mgl64.Vec3{100, 100, 100}, 60)

	if b.Position != (mgl64.Vec3{1, 2, 3}) || b.Velocity != (mgl64.Vec3{4, 5, 6}) {
		t.Errorf("frozen body moved: %v %v", b.Position, b.Velocity)
	}
}

func TestStepAppliesAll(t *testing.T) {
	reg := body.NewRegistry()
	accs := make([]gravity.Acceleration, 0, 20)
	for i := 0; i < 20; i++ {
		b := newBody(t, reg)
		accs = append(accs, gravity.Acceleration{Body: b, Vec: mgl64.Vec3{float64(i), 0, 0}})
	}

	New(LegacyTerm, 4).Step(accs, 2)

	for i, a := range accs {
		if a.Body.Velocity[0] != float64(2*i) {
			t.Errorf("body %d velocity = %v", i, a.Body.Velocity)
		}
	}
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in      string
		want    Term
		wantErr bool
	}{
		{"", LegacyTerm, false},
		{"legacy", LegacyTerm, false},
		{"exact", ExactTerm, false},
		{"quadratic", LegacyTerm, true},
	}
	for _, tt := range tests {
		got, err := ParseTerm(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTerm(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestFastestSpeedAndClosest(t *testing.T) {
	reg := body.NewRegistry()
	newBody(t, reg, body.WithFrozen(true))
	newBody(t, reg, body.WithFrozen(true), body.WithPosition(1, 0, 0))
	newBody(t, reg, body.WithPosition(0, 10, 0), body.WithVelocity(3, 4, 0))
	newBody(t, reg, body.WithPosition(0, 16, 0), body.WithVelocity(0, 1, 0))

	if got := FastestSpeed(reg); got != 5 {
		t.Errorf("fastest = %v, want 5", got)
	}
	// the frozen pair 1 m apart does not count
	if got := ClosestApproach(reg); got != 6 {
		t.Errorf("closest = %v, want 6", got)
	}

	empty := body.NewRegistry()
	if !math.IsInf(ClosestApproach(empty), 1) {
		t.Error("expected +Inf for an empty registry")
	}
}
