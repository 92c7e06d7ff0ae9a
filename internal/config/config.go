package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrator"
	"github.com/san-kum/gravsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMode  = "fixed"
	DefaultSteps = 1000
)

type Config struct {
	Mode         string `yaml:"mode"`
	PositionTerm string `yaml:"position_term"`
	Steps        int64  `yaml:"steps"`

	MinForce        float64 `yaml:"min_force"`
	TargetStep      float64 `yaml:"target_step"`
	ProximityRange  float64 `yaml:"proximity_range"`
	MinStepFraction float64 `yaml:"min_step_fraction"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	SpeedThreshold  float64 `yaml:"speed_threshold"`
	SpeedCap        float64 `yaml:"speed_cap"`
	MaxReduction    float64 `yaml:"max_reduction"`

	Window        int     `yaml:"window"`
	Workers       int     `yaml:"workers"`
	IntervalMs    float64 `yaml:"interval_ms"`
	ValidateState bool    `yaml:"validate_state"`

	Bodies []BodyConfig `yaml:"bodies"`
}

// BodyConfig describes one body. Zero size or mass means the body default.
type BodyConfig struct {
	Name     string     `yaml:"name"`
	Size     float64    `yaml:"size"`
	Mass     float64    `yaml:"mass"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Color    string     `yaml:"color,omitempty"`
	Frozen   bool       `yaml:"frozen,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:            DefaultMode,
		PositionTerm:    integrator.LegacyTerm.String(),
		Steps:           DefaultSteps,
		MinForce:        gravity.DefaultMinForce,
		TargetStep:      integrator.DefaultTargetStep,
		MinStepFraction: integrator.DefaultMinFraction,
		SpeedMultiplier: integrator.DefaultMultiplier,
		SpeedThreshold:  sim.ParamDefaults[sim.ParamSpeedThreshold],
		SpeedCap:        sim.ParamDefaults[sim.ParamSpeedCap],
		MaxReduction:    integrator.DefaultMaxReduction,
		Window:          integrator.DefaultWindow,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}

// Policy builds the timestep policy named by Mode with this config's tunables.
func (c *Config) Policy() (integrator.Policy, error) {
	p, err := integrator.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}

	switch p := p.(type) {
	case *integrator.FixedTarget:
		p.Target = c.TargetStep
		p.ProximityRange = c.ProximityRange
		p.MinFraction = c.MinStepFraction
	case *integrator.RealTime:
		p.Multiplier = c.SpeedMultiplier
		p.SpeedThreshold = c.SpeedThreshold
		p.SpeedCap = c.SpeedCap
		p.MaxReduction = c.MaxReduction
	}
	return p, nil
}

func (c *Config) SimConfig() (sim.Config, error) {
	policy, err := c.Policy()
	if err != nil {
		return sim.Config{}, err
	}
	term, err := integrator.ParseTerm(c.PositionTerm)
	if err != nil {
		return sim.Config{}, err
	}

	cfg := sim.DefaultConfig()
	cfg.Policy = policy
	cfg.Term = term
	cfg.MinForce = c.MinForce
	cfg.ValidateState = c.ValidateState
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.Window > 0 {
		cfg.Window = c.Window
	}
	return cfg, nil
}

func (c *Config) RunOptions() sim.RunOptions {
	return sim.RunOptions{
		MaxSteps: c.Steps,
		Interval: time.Duration(c.IntervalMs * float64(time.Millisecond)),
	}
}

// Options converts a body entry to registry options.
func (b BodyConfig) Options() []body.Option {
	opts := []body.Option{
		body.WithName(b.Name),
		body.WithPosition(b.Position[0], b.Position[1], b.Position[2]),
		body.WithVelocity(b.Velocity[0], b.Velocity[1], b.Velocity[2]),
		body.WithFrozen(b.Frozen),
	}
	if b.Size != 0 {
		opts = append(opts, body.WithRadius(b.Size))
	}
	if b.Mass != 0 {
		opts = append(opts, body.WithMass(b.Mass))
	}
	if b.Color != "" {
		opts = append(opts, body.WithHexColor(b.Color))
	}
	return opts
}

// Build creates a simulation populated with the configured bodies.
func (c *Config) Build() (*sim.Simulation, error) {
	cfg, err := c.SimConfig()
	if err != nil {
		return nil, err
	}

	s := sim.New(cfg)
	for i, b := range c.Bodies {
		if _, err := s.CreateBody(b.Options()...); err != nil {
			return nil, fmt.Errorf("body %d (%q): %w", i, b.Name, err)
		}
	}
	return s, nil
}
