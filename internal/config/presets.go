package config

import (
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/gravity"
)

// Units are SI.
const (
	Minute = 60.0
	Hour   = 60 * Minute

	Kilometer        = 1000.0
	EarthRadius      = 6371 * Kilometer
	MoonRadius       = 1737.1 * Kilometer
	JupiterRadius    = 69911 * Kilometer
	SunRadius        = 696340 * Kilometer
	AstronomicalUnit = 149597871 * Kilometer

	MoonMass    = 7.34767309e22
	EarthMass   = 5.972e24
	JupiterMass = 1.898e27
	SunMass     = 1.989e30
)

// circular is the speed of a light body on a circular orbit of radius r
// around mass m.
func circular(m, r float64) float64 {
	return math.Sqrt(gravity.G * m / r)
}

func preset(mutate func(c *Config), bodies ...BodyConfig) *Config {
	c := DefaultConfig()
	c.Bodies = bodies
	if mutate != nil {
		mutate(c)
	}
	return c
}

var Presets = map[string]*Config{
	// Earth, the Moon and a spacecraft in low Earth orbit.
	"earth-moon": preset(nil,
		BodyConfig{Name: "Earth", Size: EarthRadius, Mass: EarthMass, Frozen: true},
		BodyConfig{
			Name: "Moon", Size: MoonRadius, Mass: MoonMass, Color: "#a3a3a3",
			Position: [3]float64{-385000000, 0, 0},
			Velocity: [3]float64{0, 1000, 0},
		},
		BodyConfig{
			Name: "Spacecraft", Size: 10, Mass: 700, Color: "#ffffff",
			Position: [3]float64{0, -EarthRadius - 800*Kilometer, 0},
			Velocity: [3]float64{-10356.8, -300, 200},
		},
	),
	"earth-probe": preset(func(c *Config) {
		c.TargetStep = 10
		c.MinForce = 0
	},
		BodyConfig{Name: "Earth", Size: EarthRadius, Mass: EarthMass, Frozen: true, Color: "#2e6fd8"},
		BodyConfig{
			Name: "Probe", Size: 10, Mass: 1000, Color: "#ffffff",
			Position: [3]float64{EarthRadius + 800*Kilometer, 0, 0},
			Velocity: [3]float64{0, circular(EarthMass, EarthRadius+800*Kilometer), 0},
		},
	),
	// Two solar masses one AU apart on a shared circular orbit.
	"binary": preset(func(c *Config) {
		c.TargetStep = Hour
	},
		BodyConfig{
			Name: "Alpha", Size: SunRadius, Mass: SunMass, Color: "#ffd27f",
			Position: [3]float64{-AstronomicalUnit / 2, 0, 0},
			Velocity: [3]float64{0, -circular(SunMass, 2*AstronomicalUnit), 0},
		},
		BodyConfig{
			Name: "Beta", Size: SunRadius, Mass: SunMass, Color: "#9bb0ff",
			Position: [3]float64{AstronomicalUnit / 2, 0, 0},
			Velocity: [3]float64{0, circular(SunMass, 2*AstronomicalUnit), 0},
		},
	),
	// Io sits inside the proximity range, so steps shrink toward 1/12.
	"sun-jupiter": preset(func(c *Config) {
		c.ProximityRange = 7 * JupiterRadius
		c.MinStepFraction = 1.0 / 12
	},
		BodyConfig{Name: "Sun", Size: SunRadius, Mass: SunMass, Frozen: true},
		BodyConfig{
			Name: "Jupiter", Size: JupiterRadius, Mass: JupiterMass, Color: "#c99e6b",
			Position: [3]float64{5.2 * AstronomicalUnit, 0, 0},
			Velocity: [3]float64{0, circular(SunMass, 5.2*AstronomicalUnit), 0},
		},
		BodyConfig{
			Name: "Io", Size: 1821.6 * Kilometer, Mass: 8.93e22, Color: "#e8d36a",
			Position: [3]float64{5.2*AstronomicalUnit + 421700*Kilometer, 0, 0},
			Velocity: [3]float64{0, circular(SunMass, 5.2*AstronomicalUnit) + circular(JupiterMass, 421700*Kilometer), 0},
		},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
