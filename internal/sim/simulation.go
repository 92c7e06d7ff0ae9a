package sim

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrator"
	"github.com/san-kum/gravsim/internal/telemetry"
)

type Simulation struct {
	mu        sync.RWMutex
	cfg       Config
	reg       *body.Registry
	eval      *gravity.Evaluator
	integ     *integrator.Integrator
	policy    integrator.Policy
	clock     *integrator.Clock
	metrics   []Metric
	observers []Observer
}

func New(cfg Config) *Simulation {
	def := DefaultConfig()
	if cfg.Policy == nil {
		cfg.Policy = def.Policy
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}

	eval := gravity.NewEvaluator(cfg.MinForce)
	eval.Workers = cfg.Workers

	return &Simulation{
		cfg:       cfg,
		reg:       body.NewRegistry(),
		eval:      eval,
		integ:     integrator.New(cfg.Term, cfg.Workers),
		policy:    cfg.Policy,
		clock:     integrator.NewClock(cfg.Window),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulation) AddMetric(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
}

func (s *Simulation) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// CreateBody registers a body and returns its final name, see body.Registry.Create.
func (s *Simulation) CreateBody(opts ...body.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Create(opts...)
}

// Body returns a copy of the named body.
func (s *Simulation) Body(name string) (body.Body, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := s.reg.Get(name)
	if err != nil {
		return body.Body{}, err
	}
	return *b, nil
}

// AccelerationOf evaluates the current pull on one body and refreshes its primary.
func (s *Simulation) AccelerationOf(name string) (mgl64.Vec3, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval.AccelerationOf(s.reg, name)
}

func (s *Simulation) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Len()
}

// Snapshot copies bodies and clock for renderers and HUDs.
func (s *Simulation) Snapshot() telemetry.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return telemetry.Capture(s.reg, s.clock)
}

// Step advances every non-frozen body once. All accelerations are evaluated
// before any body moves.
func (s *Simulation) Step() (Report, error) {
	s.mu.Lock()

	start := s.cfg.Now()

	cond := s.clock.Conditions()
	if pa, ok := s.policy.(integrator.ProximityAware); ok && pa.UsesProximity() {
		cond.Closest = integrator.ClosestApproach(s.reg)
	}
	dt := s.policy.Next(cond)

	accs := s.eval.Evaluate(s.reg)
	s.integ.Step(accs, dt)
	fastest := integrator.FastestSpeed(s.reg)

	took := s.cfg.Now().Sub(start)
	s.clock.Advance(dt, took, fastest)

	rep := Report{
		Step:    s.clock.Steps,
		Dt:      dt,
		Took:    took,
		Elapsed: s.clock.Elapsed,
		Fastest: fastest,
	}

	var err error
	if s.cfg.ValidateState {
		if bad := s.reg.Degenerate(); len(bad) > 0 {
			err = &StepError{Step: rep.Step, Elapsed: rep.Elapsed, Bodies: bad, Wrapped: ErrNumericDegeneracy}
		}
	}

	metrics, observers := s.metrics, s.observers
	var snap telemetry.Snapshot
	if len(metrics) > 0 || len(observers) > 0 {
		snap = telemetry.Capture(s.reg, s.clock)
	}
	s.mu.Unlock()

	for _, m := range metrics {
		m.Observe(snap)
	}
	for _, o := range observers {
		o.OnStep(rep, snap)
	}

	return rep, err
}

// Run steps until ctx is done or opts.MaxSteps is reached. Without an
// Interval the loop only yields the processor between steps.
func (s *Simulation) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	s.mu.RLock()
	for _, m := range s.metrics {
		m.Reset()
	}
	s.mu.RUnlock()

	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	var runErr error
loop:
	for opts.MaxSteps <= 0 || result.Steps < opts.MaxSteps {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		default:
		}

		rep, err := s.Step()
		result.Steps++
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}

		if !s.wait(ctx, opts.Interval-rep.Took) {
			runErr = ctx.Err()
			break
		}
	}

	s.mu.RLock()
	result.Elapsed = s.clock.Elapsed
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = telemetry.Capture(s.reg, s.clock)
	s.mu.RUnlock()

	return result, runErr
}

// wait sleeps for d, or just yields when d <= 0. It reports false if ctx
// ended first.
func (s *Simulation) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		runtime.Gosched()
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Restart zeroes the clock and metrics. Bodies keep their current state.
func (s *Simulation) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.Reset()
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Simulation) Policy() integrator.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy swaps the timestep policy; the measured history is kept.
func (s *Simulation) SetPolicy(p integrator.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
}
