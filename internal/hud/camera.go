package hud

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/telemetry"
)

// Camera is an orthographic view of the scene. With AutoFit set the scale
// follows the bodies so that all of them stay on screen.
type Camera struct {
	Pitch, Yaw float64
	Zoom       float64
	AutoFit    bool
	// Focus names the body kept at the center; empty centers on the
	// bounding box of all bodies.
	Focus string

	center mgl64.Vec3
	extent float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1, AutoFit: true}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(1000, c.Zoom*1.25) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.001, c.Zoom/1.25) }

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DZ(c.Yaw))
}

// Fit recomputes the view center and extent from a snapshot.
func (c *Camera) Fit(snap telemetry.Snapshot) {
	if len(snap.Bodies) == 0 {
		return
	}

	rot := c.rotation()
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := lo.Mul(-1)
	for _, b := range snap.Bodies {
		p := rot.Mul3x1(b.Position)
		if !finite(p) {
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	if math.IsInf(lo[0], 1) {
		return
	}

	c.center = rot.Transpose().Mul3x1(lo.Add(hi).Mul(0.5))
	if f, ok := snap.Body(c.Focus); ok && finite(f.Position) {
		c.center = f.Position
	}

	if c.AutoFit || c.extent == 0 {
		mid := rot.Mul3x1(c.center)
		ext := 0.0
		for i := 0; i < 2; i++ {
			ext = math.Max(ext, math.Max(hi[i]-mid[i], mid[i]-lo[i]))
		}
		if ext <= 0 {
			ext = 1
		}
		c.extent = ext * 1.1
	}
}

// Project maps a world position to canvas dots. The second result is false
// when the point falls outside a w x h dot area.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (int, int, bool) {
	if c.extent == 0 || !finite(p) {
		return 0, 0, false
	}
	v := c.rotation().Mul3x1(p.Sub(c.center))

	scale := c.Scale(1, w, h)
	x := int(math.Round(v[0]*scale)) + w/2
	y := int(math.Round(-v[1]*scale)) + h/2
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// Scale returns the projected size of a length, in dots.
func (c *Camera) Scale(length float64, w, h int) float64 {
	if c.extent == 0 {
		return 0
	}
	half := float64(min(w, h)) / 2
	return length * half / c.extent * c.Zoom
}

func finite(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}
