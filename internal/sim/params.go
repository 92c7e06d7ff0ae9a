package sim

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrator"
)

// Tunable names accepted by SetParam and ParseParam.
const (
	ParamMinForce        = "min_force"
	ParamTargetStep      = "target_step"
	ParamProximityRange  = "proximity_range"
	ParamMinStepFraction = "min_step_fraction"
	ParamSpeedMultiplier = "speed_multiplier"
	ParamSpeedThreshold  = "speed_threshold"
	ParamSpeedCap        = "speed_cap"
	ParamMaxReduction    = "max_reduction"
)

// ParamDefaults are the values restored when a setter gets unusable input.
var ParamDefaults = map[string]float64{
	ParamMinForce:        gravity.DefaultMinForce,
	ParamTargetStep:      integrator.DefaultTargetStep,
	ParamProximityRange:  0,
	ParamMinStepFraction: integrator.DefaultMinFraction,
	ParamSpeedMultiplier: integrator.DefaultMultiplier,
	ParamSpeedThreshold:  5000,
	ParamSpeedCap:        20000,
	ParamMaxReduction:    integrator.DefaultMaxReduction,
}

// Params lists the tunables that apply to the current policy.
func (s *Simulation) Params() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	params := map[string]float64{ParamMinForce: s.eval.MinForce}
	for name, ptr := range s.policyFields() {
		params[name] = *ptr
	}
	return params
}

// ParamNames returns the keys of Params in sorted order.
func (s *Simulation) ParamNames() []string {
	params := s.Params()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam assigns a tunable. A non-finite value is replaced by the default
// and reported with an error wrapping body.ErrInvalidParameter.
func (s *Simulation) SetParam(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ptr, err := s.field(name)
	if err != nil {
		return err
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		*ptr = ParamDefaults[name]
		return fmt.Errorf("%w: %s=%v, using default %v", body.ErrInvalidParameter, name, value, *ptr)
	}
	*ptr = value
	return nil
}

// ParseParam is SetParam for raw user input. Unparseable text falls back to
// the default the same way.
func (s *Simulation) ParseParam(name, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v = math.NaN()
	}
	return s.SetParam(name, v)
}

func (s *Simulation) field(name string) (*float64, error) {
	if name == ParamMinForce {
		return &s.eval.MinForce, nil
	}
	if ptr, ok := s.policyFields()[name]; ok {
		return ptr, nil
	}
	return nil, fmt.Errorf("%w: %s (mode %s)", ErrUnknownParam, name, s.policy.Name())
}

func (s *Simulation) policyFields() map[string]*float64 {
	switch p := s.policy.(type) {
	case *integrator.FixedTarget:
		return map[string]*float64{
			ParamTargetStep:      &p.Target,
			ParamProximityRange:  &p.ProximityRange,
			ParamMinStepFraction: &p.MinFraction,
		}
	case *integrator.RealTime:
		return map[string]*float64{
			ParamSpeedMultiplier: &p.Multiplier,
			ParamSpeedThreshold:  &p.SpeedThreshold,
			ParamSpeedCap:        &p.SpeedCap,
			ParamMaxReduction:    &p.MaxReduction,
		}
	default:
		return nil
	}
}
