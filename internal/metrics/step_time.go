package metrics

import (
	"time"

	"github.com/san-kum/gravsim/internal/telemetry"
)

// StepTime is the mean wall-clock cost of a physics step in milliseconds.
type StepTime struct {
	name    string
	total   time.Duration
	samples int
}

func NewStepTime() *StepTime {
	return &StepTime{name: "step_ms"}
}

func (s *StepTime) Name() string { return s.name }

func (s *StepTime) Observe(snap telemetry.Snapshot) {
	s.total += snap.Clock.LastStep
	s.samples++
}

func (s *StepTime) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.total) / float64(s.samples) / float64(time.Millisecond)
}

func (s *StepTime) Reset() {
	s.total = 0
	s.samples = 0
}
