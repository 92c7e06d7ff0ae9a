package storage

import (
	"sync"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/telemetry"
)

// DefaultMaxFrames bounds a recording; older frames are dropped first.
const DefaultMaxFrames = 1000

// Recorder is a sim.Observer that samples every Every-th step.
type Recorder struct {
	Every     int64
	MaxFrames int

	mu     sync.Mutex
	frames []Frame
	bodies []string
	colors []string
}

func NewRecorder(every int64) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every, MaxFrames: DefaultMaxFrames}
}

func (r *Recorder) OnStep(rep sim.Report, snap telemetry.Snapshot) {
	if rep.Step%r.Every != 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bodies == nil {
		r.bodies = make([]string, len(snap.Bodies))
		r.colors = make([]string, len(snap.Bodies))
		for i, b := range snap.Bodies {
			r.bodies[i] = b.Name
			r.colors[i] = b.Color
		}
	}

	r.frames = append(r.frames, FrameOf(snap))
	if r.MaxFrames > 0 && len(r.frames) > r.MaxFrames {
		r.frames = append(r.frames[:0], r.frames[len(r.frames)-r.MaxFrames:]...)
	}
}

// Frames returns a copy of the recorded frames, oldest first.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Bodies returns body names in column order.
func (r *Recorder) Bodies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bodies...)
}

// Colors returns body color hints in column order.
func (r *Recorder) Colors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.colors...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
	r.bodies = nil
	r.colors = nil
}
