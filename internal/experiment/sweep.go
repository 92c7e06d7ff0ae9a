// Package experiment runs one scene under several values of a tunable.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

var ErrNoValues = errors.New("experiment: no sweep values")

// Sweep varies Param over Values, one simulation per value, all built
// from Base and run concurrently.
type Sweep struct {
	Base   *config.Config
	Param  string
	Values []float64
	// Metrics returns fresh metrics for each member.
	Metrics func() []sim.Metric
}

type Outcome struct {
	Value  float64
	Result *sim.Result
}

func (s *Sweep) Run(ctx context.Context) ([]Outcome, error) {
	if len(s.Values) == 0 {
		return nil, ErrNoValues
	}

	members := make([]*sim.Simulation, len(s.Values))
	for i, v := range s.Values {
		m, err := s.Base.Build()
		if err != nil {
			return nil, err
		}
		if err := m.SetParam(s.Param, v); err != nil {
			return nil, fmt.Errorf("sweep %s=%v: %w", s.Param, v, err)
		}
		if s.Metrics != nil {
			for _, metric := range s.Metrics() {
				m.AddMetric(metric)
			}
		}
		members[i] = m
	}

	results, err := sim.NewEnsemble(members...).Run(ctx, s.Base.RunOptions())
	outcomes := make([]Outcome, len(results))
	for i, r := range results {
		outcomes[i] = Outcome{Value: s.Values[i], Result: r}
	}
	return outcomes, err
}

// ParseValues reads a comma separated list such as "0,0.1,1".
func ParseValues(raw string) ([]float64, error) {
	var values []float64
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("sweep value %q: %w", field, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	return values, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
