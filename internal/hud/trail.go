package hud

import "github.com/go-gl/mathgl/mgl64"

// MaxSegments is how many trail points are kept per body.
const MaxSegments = 1000

// Trails holds recent positions per body, oldest first.
type Trails struct {
	max    int
	points map[string][]mgl64.Vec3
}

func NewTrails(max int) *Trails {
	if max < 1 {
		max = MaxSegments
	}
	return &Trails{max: max, points: make(map[string][]mgl64.Vec3)}
}

func (t *Trails) Add(name string, p mgl64.Vec3) {
	pts := append(t.points[name], p)
	if len(pts) > t.max {
		pts = pts[len(pts)-t.max:]
	}
	t.points[name] = pts
}

func (t *Trails) Points(name string) []mgl64.Vec3 { return t.points[name] }

func (t *Trails) Clear() { clear(t.points) }
