package body

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Option sets one attribute of a body under construction.
type Option func(*Body) error

func WithName(name string) Option {
	return func(b *Body) error {
		b.Name = name
		return nil
	}
}

func WithMass(kg float64) Option {
	return func(b *Body) error {
		if !finite(kg) || kg <= 0 {
			return fmt.Errorf("%w: mass %v", ErrInvalidParameter, kg)
		}
		b.Mass = kg
		return nil
	}
}

// WithRadius sets the drawing radius in meters. It has no effect on physics.
func WithRadius(m float64) Option {
	return func(b *Body) error {
		if !finite(m) || m <= 0 {
			return fmt.Errorf("%w: radius %v", ErrInvalidParameter, m)
		}
		b.Radius = m
		return nil
	}
}

func WithPosition(x, y, z float64) Option {
	return func(b *Body) error {
		v := mgl64.Vec3{x, y, z}
		if !finiteVec(v) {
			return fmt.Errorf("%w: position %v", ErrInvalidParameter, v)
		}
		b.Position = v
		return nil
	}
}

func WithVelocity(x, y, z float64) Option {
	return func(b *Body) error {
		v := mgl64.Vec3{x, y, z}
		if !finiteVec(v) {
			return fmt.Errorf("%w: velocity %v", ErrInvalidParameter, v)
		}
		b.Velocity = v
		return nil
	}
}

func WithColor(c colorful.Color) Option {
	return func(b *Body) error {
		b.Color = c
		return nil
	}
}

// WithHexColor parses colors such as "#a3a3a3".
func WithHexColor(hex string) Option {
	return func(b *Body) error {
		c, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("%w: color %q", ErrInvalidParameter, hex)
		}
		b.Color = c
		return nil
	}
}

// WithFrozen marks the body as an immovable anchor. It still attracts others.
func WithFrozen(frozen bool) Option {
	return func(b *Body) error {
		b.Frozen = frozen
		return nil
	}
}
