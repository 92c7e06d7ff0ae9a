package storage

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/telemetry"
)

// Frame is one sampled step.
type Frame struct {
	Time      float64
	Dt        float64
	StepMs    float64
	Positions []mgl64.Vec3
}

func FrameOf(snap telemetry.Snapshot) Frame {
	f := Frame{
		Time:      snap.Clock.Elapsed,
		Dt:        snap.Clock.Dt,
		StepMs:    snap.Clock.LastStep.Seconds() * 1000,
		Positions: make([]mgl64.Vec3, len(snap.Bodies)),
	}
	for i, b := range snap.Bodies {
		f.Positions[i] = b.Position
	}
	return f
}

func header(bodies []string) []string {
	h := []string{"time", "dt", "step_ms"}
	for _, name := range bodies {
		h = append(h, name+".x", name+".y", name+".z")
	}
	return h
}

func (f Frame) record() []string {
	row := []string{format(f.Time), format(f.Dt), format(f.StepMs)}
	for _, p := range f.Positions {
		row = append(row, format(p[0]), format(p[1]), format(p[2]))
	}
	return row
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
