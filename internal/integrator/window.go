package integrator

import "time"

// DefaultWindow is the number of step durations kept for averaging.
const DefaultWindow = 3000

// Window is a fixed-capacity ring of durations; the oldest entry is evicted
// once it is full.
type Window struct {
	buf  []time.Duration
	next int
	n    int
	sum  time.Duration
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = DefaultWindow
	}
	return &Window{buf: make([]time.Duration, capacity)}
}

func (w *Window) Push(d time.Duration) {
	if w.n == len(w.buf) {
		w.sum -= w.buf[w.next]
	} else {
		w.n++
	}
	w.buf[w.next] = d
	w.sum += d
	w.next = (w.next + 1) % len(w.buf)
}

func (w *Window) Average() time.Duration {
	if w.n == 0 {
		return 0
	}
	return w.sum / time.Duration(w.n)
}

func (w *Window) Last() time.Duration {
	if w.n == 0 {
		return 0
	}
	return w.buf[(w.next-1+len(w.buf))%len(w.buf)]
}

func (w *Window) Len() int { return w.n }
func (w *Window) Cap() int { return len(w.buf) }

// Values returns the retained durations, oldest first.
func (w *Window) Values() []time.Duration {
	out := make([]time.Duration, 0, w.n)
	start := (w.next - w.n + len(w.buf)) % len(w.buf)
	for i := 0; i < w.n; i++ {
		out = append(out, w.buf[(start+i)%len(w.buf)])
	}
	return out
}

func (w *Window) Reset() {
	w.next, w.n, w.sum = 0, 0, 0
}
