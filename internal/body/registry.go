package body

import (
	"fmt"
	"iter"
)

// Registry maps body names to bodies, preserving insertion order.
type Registry struct {
	order  []string
	bodies map[string]*Body
}

func NewRegistry() *Registry {
	return &Registry{bodies: make(map[string]*Body)}
}

// Create inserts a new body built from the defaults and the given options
// and returns the name it was stored under. A missing or colliding name is
// replaced by "Body N" instead of overwriting the existing entry.
func (r *Registry) Create(opts ...Option) (string, error) {
	b := &Body{
		Mass:   DefaultMass,
		Radius: DefaultRadius,
		Color:  DefaultColor,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return "", err
		}
	}

	if _, taken := r.bodies[b.Name]; taken || b.Name == "" {
		b.Name = r.generateName()
	}
	b.Primary = b.Name

	r.order = append(r.order, b.Name)
	r.bodies[b.Name] = b
	return b.Name, nil
}

// generateName returns "Body N" with N = Len()+1, bumping N while the
// candidate is already registered.
func (r *Registry) generateName() string {
	for n := len(r.order) + 1; ; n++ {
		name := fmt.Sprintf("Body %d", n)
		if _, taken := r.bodies[name]; !taken {
			return name
		}
	}
}

func (r *Registry) Get(name string) (*Body, error) {
	b, ok := r.bodies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return b, nil
}

// All yields (name, body) pairs in insertion order. Each call starts over.
func (r *Registry) All() iter.Seq2[string, *Body] {
	return func(yield func(string, *Body) bool) {
		for _, name := range r.order {
			if !yield(name, r.bodies[name]) {
				return
			}
		}
	}
}

// At returns the i-th body in insertion order.
func (r *Registry) At(i int) *Body { return r.bodies[r.order[i]] }

func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Degenerate lists bodies whose position or velocity is no longer finite.
func (r *Registry) Degenerate() []string {
	var names []string
	for name, b := range r.All() {
		if !b.IsFinite() {
			names = append(names, name)
		}
	}
	return names
}
