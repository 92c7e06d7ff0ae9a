package telemetry

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/integrator"
)

// BodyView is a copy of one body's drawable and classification data.
type BodyView struct {
	Name     string
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
	Radius   float64
	Color    string
	Frozen   bool
	Primary  string
	Class    Class
}

type ClockView struct {
	Elapsed       float64
	Time          Elapsed
	CalendarYears float64
	Dt            float64
	LastStep      time.Duration
	AverageStep   time.Duration
	Steps         int64
	FastestSpeed  float64
}

// Snapshot is a detached copy of the simulation at one instant.
type Snapshot struct {
	Bodies []BodyView
	Clock  ClockView
}

// Capture copies the registry and clock. The caller must keep both from
// changing during the call.
func Capture(reg *body.Registry, clock *integrator.Clock) Snapshot {
	snap := Snapshot{Bodies: make([]BodyView, 0, reg.Len())}

	for name, b := range reg.All() {
		var primary *body.Body
		if p, err := reg.Get(b.Primary); err == nil {
			primary = p
		}
		snap.Bodies = append(snap.Bodies, BodyView{
			Name:     name,
			Position: b.Position,
			Velocity: b.Velocity,
			Mass:     b.Mass,
			Radius:   b.Radius,
			Color:    b.Color.Hex(),
			Frozen:   b.Frozen,
			Primary:  b.Primary,
			Class:    Classify(b, primary),
		})
	}

	snap.Clock = ClockView{
		Elapsed:       clock.Elapsed,
		Time:          Breakdown(clock.Elapsed),
		CalendarYears: CalendarYears(clock.Elapsed),
		Dt:            clock.Dt,
		LastStep:      clock.LastStep,
		AverageStep:   clock.Average(),
		Steps:         clock.Steps,
		FastestSpeed:  clock.Fastest,
	}
	return snap
}

func (s Snapshot) Body(name string) (BodyView, bool) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyView{}, false
}

// Finite reports whether every body has finite position and velocity.
func (s Snapshot) Finite() bool {
	for _, b := range s.Bodies {
		for i := 0; i < 3; i++ {
			if bad(b.Position[i]) || bad(b.Velocity[i]) {
				return false
			}
		}
	}
	return true
}

func bad(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }

// Lines renders the HUD text shown next to the scene.
func (s Snapshot) Lines() []string {
	return []string{
		fmt.Sprintf("Time step is %.4g s", s.Clock.Dt),
		fmt.Sprintf("Physics took %.3f ms", ms(s.Clock.LastStep)),
		fmt.Sprintf("Physics average time: %.3f ms", ms(s.Clock.AverageStep)),
		fmt.Sprintf("Simulated time elapsed: %s", s.Clock.Time),
	}
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
