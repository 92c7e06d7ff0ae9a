package sim_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/integrator"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/telemetry"
)

const earthMass = 5.972e24

// fakeNow advances by step on every call.
func fakeNow(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func newSim(policy integrator.Policy, minForce float64) *sim.Simulation {
	cfg := sim.DefaultConfig()
	cfg.Policy = policy
	cfg.MinForce = minForce
	cfg.Workers = 2
	cfg.Now = fakeNow(2 * time.Millisecond)
	return sim.New(cfg)
}

func mustCreate(s *sim.Simulation, opts ...body.Option) string {
	name, err := s.CreateBody(opts...)
	Expect(err).NotTo(HaveOccurred())
	return name
}

var _ = Describe("Simulation", func() {
	Describe("Step", func() {
		It("applies one semi-implicit step to a probe above Earth", func() {
			s := newSim(integrator.NewFixedTarget(60), 0)
			mustCreate(s, body.WithName("Earth"), body.WithMass(earthMass), body.WithFrozen(true))
			mustCreate(s, body.WithName("Probe"), body.WithMass(1000),
				body.WithPosition(7.171e6, 0, 0))

			acc, err := s.AccelerationOf("Probe")
			Expect(err).NotTo(HaveOccurred())
			Expect(acc[0]).To(BeNumerically("<", 0))

			rep, err := s.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Step).To(BeEquivalentTo(1))
			Expect(rep.Dt).To(Equal(60.0))
			Expect(rep.Took).To(Equal(2 * time.Millisecond))

			probe, err := s.Body("Probe")
			Expect(err).NotTo(HaveOccurred())
			Expect(probe.Velocity[0]).To(BeNumerically("~", acc[0]*60, 1e-9))
			Expect(probe.Velocity[1]).To(BeZero())
			Expect(probe.Primary).To(Equal("Earth"))
			// legacy term: x + v'·dt + a·dt/2
			Expect(probe.Position[0]).To(BeNumerically("~", 7.171e6+acc[0]*60*60+acc[0]*30, 1e-6))
		})

		It("never moves frozen bodies", func() {
			s := newSim(integrator.NewFixedTarget(10), 0)
			mustCreate(s, body.WithName("Anchor"), body.WithMass(1e10),
				body.WithPosition(1, 2, 3), body.WithVelocity(5, 5, 5), body.WithFrozen(true))
			mustCreate(s, body.WithName("Rock"), body.WithMass(1e10), body.WithPosition(1000, 0, 0))

			for range 20 {
				_, err := s.Step()
				Expect(err).NotTo(HaveOccurred())
			}

			anchor, err := s.Body("Anchor")
			Expect(err).NotTo(HaveOccurred())
			Expect(anchor.Position[0]).To(Equal(1.0))
			Expect(anchor.Position[1]).To(Equal(2.0))
			Expect(anchor.Position[2]).To(Equal(3.0))
			Expect(anchor.Velocity[0]).To(Equal(5.0))
			Expect(anchor.Primary).To(Equal("Anchor"))

			rock, _ := s.Body("Rock")
			Expect(rock.Position[0]).To(BeNumerically("<", 1000))
		})

		It("keeps total momentum of an isolated pair", func() {
			s := newSim(integrator.NewFixedTarget(1), 0)
			drift := metrics.NewMomentumDrift()
			s.AddMetric(drift)
			mustCreate(s, body.WithName("A"), body.WithMass(1e10))
			mustCreate(s, body.WithName("B"), body.WithMass(1e10), body.WithPosition(100, 0, 0))

			for range 200 {
				_, err := s.Step()
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(drift.Value()).To(BeNumerically("<", 1e-3))
			a, _ := s.Body("A")
			b, _ := s.Body("B")
			Expect(a.Velocity[0]).To(BeNumerically(">", 0))
			Expect(b.Velocity[0]).To(BeNumerically("~", -a.Velocity[0], 1e-12))
		})

		It("reports coincident bodies when validation is on", func() {
			cfg := sim.DefaultConfig()
			cfg.Policy = integrator.NewFixedTarget(1)
			cfg.ValidateState = true
			s := sim.New(cfg)
			mustCreate(s, body.WithName("A"))
			mustCreate(s, body.WithName("B"))

			_, err := s.Step()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, sim.ErrNumericDegeneracy)).To(BeTrue())

			var stepErr *sim.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(BeEquivalentTo(1))
			Expect(stepErr.Bodies).To(ConsistOf("A", "B"))
			Expect(s.Snapshot().Finite()).To(BeFalse())
		})

		It("applies degenerate state silently without validation", func() {
			s := newSim(integrator.NewFixedTarget(1), 0)
			mustCreate(s, body.WithName("A"))
			mustCreate(s, body.WithName("B"))

			_, err := s.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Snapshot().Finite()).To(BeFalse())
		})

		It("sizes real-time steps from measured durations", func() {
			s := newSim(integrator.NewRealTime(3600), 0)
			mustCreate(s, body.WithName("A"), body.WithMass(1))

			first, _ := s.Step()
			Expect(first.Dt).To(BeNumerically("~", 3.6, 1e-12))

			second, _ := s.Step()
			Expect(second.Dt).To(BeNumerically("~", 7.2, 1e-12))
			Expect(s.Snapshot().Clock.Elapsed).To(BeNumerically("~", 10.8, 1e-12))
		})

		It("shrinks fixed steps near a close approach", func() {
			policy := integrator.NewFixedTarget(300)
			policy.ProximityRange = 1000
			s := newSim(policy, 0)
			mustCreate(s, body.WithName("A"), body.WithFrozen(true))
			mustCreate(s, body.WithName("B"), body.WithPosition(500, 0, 0))

			rep, _ := s.Step()
			Expect(rep.Dt).To(Equal(150.0))
		})
	})

	Describe("observers and metrics", func() {
		It("notifies after every step with the step report", func() {
			s := newSim(integrator.NewFixedTarget(5), 0)
			mustCreate(s, body.WithName("A"))
			st := metrics.NewStepTime()
			s.AddMetric(st)

			var calls atomic.Int32
			var last sim.Report
			s.AddObserver(sim.ObserverFunc(func(rep sim.Report, snap telemetry.Snapshot) {
				calls.Add(1)
				last = rep
				Expect(snap.Bodies).To(HaveLen(1))
			}))

			for range 3 {
				_, _ = s.Step()
			}
			Expect(calls.Load()).To(BeEquivalentTo(3))
			Expect(last.Step).To(BeEquivalentTo(3))
			Expect(last.Elapsed).To(Equal(15.0))
			Expect(st.Value()).To(BeNumerically("~", 2, 1e-9))
		})
	})

	Describe("Run", func() {
		It("stops after MaxSteps and reports metrics", func() {
			s := newSim(integrator.NewFixedTarget(10), 0)
			mustCreate(s, body.WithName("A"), body.WithMass(1e12))
			mustCreate(s, body.WithName("B"), body.WithMass(1e12), body.WithPosition(1e4, 0, 0))
			s.AddMetric(metrics.NewStability())

			res, err := s.Run(context.Background(), sim.RunOptions{MaxSteps: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(BeEquivalentTo(5))
			Expect(res.Elapsed).To(Equal(50.0))
			Expect(res.Metrics).To(HaveKeyWithValue("stability", 1.0))
			Expect(res.Final.Clock.Steps).To(BeEquivalentTo(5))
			Expect(res.Errors).To(BeEmpty())
		})

		It("returns immediately on a cancelled context", func() {
			s := newSim(integrator.NewFixedTarget(10), 0)
			mustCreate(s, body.WithName("A"))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := s.Run(ctx, sim.RunOptions{})
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Steps).To(BeZero())
		})

		It("runs until the deadline when unbounded", func() {
			cfg := sim.DefaultConfig()
			cfg.Policy = integrator.NewFixedTarget(1)
			s := sim.New(cfg)
			mustCreate(s, body.WithName("A"))

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			res, err := s.Run(ctx, sim.RunOptions{Interval: 5 * time.Millisecond})
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(res.Steps).To(BeNumerically(">", 0))
		})

		It("stops at the first step error", func() {
			cfg := sim.DefaultConfig()
			cfg.Policy = integrator.NewFixedTarget(1)
			cfg.ValidateState = true
			s := sim.New(cfg)
			mustCreate(s, body.WithName("A"))
			mustCreate(s, body.WithName("B"))

			res, err := s.Run(context.Background(), sim.RunOptions{MaxSteps: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(BeEquivalentTo(1))
			Expect(res.Errors).To(HaveLen(1))
		})
	})

	Describe("Restart", func() {
		It("zeroes the clock and keeps the bodies", func() {
			s := newSim(integrator.NewFixedTarget(10), 0)
			mustCreate(s, body.WithName("A"), body.WithMass(1e12))
			mustCreate(s, body.WithName("B"), body.WithMass(1e12), body.WithPosition(100, 0, 0))
			for range 4 {
				_, _ = s.Step()
			}
			before, _ := s.Body("A")

			s.Restart()

			snap := s.Snapshot()
			Expect(snap.Clock.Steps).To(BeZero())
			Expect(snap.Clock.Elapsed).To(BeZero())
			Expect(snap.Clock.AverageStep).To(BeZero())
			after, _ := s.Body("A")
			Expect(after.Position).To(Equal(before.Position))
			Expect(s.Len()).To(Equal(2))
		})
	})

	Describe("params", func() {
		var s *sim.Simulation

		BeforeEach(func() {
			s = newSim(integrator.NewFixedTarget(integrator.DefaultTargetStep), 0.1)
		})

		It("lists the tunables of the active policy", func() {
			Expect(s.ParamNames()).To(Equal([]string{
				sim.ParamMinForce, sim.ParamMinStepFraction, sim.ParamProximityRange, sim.ParamTargetStep,
			}))

			s.SetPolicy(integrator.NewRealTime(integrator.DefaultMultiplier))
			Expect(s.Params()).To(HaveKey(sim.ParamSpeedCap))
			Expect(s.Params()).NotTo(HaveKey(sim.ParamTargetStep))
		})

		It("assigns finite values", func() {
			Expect(s.SetParam(sim.ParamTargetStep, 60)).To(Succeed())
			Expect(s.Params()[sim.ParamTargetStep]).To(Equal(60.0))
			Expect(s.ParseParam(sim.ParamMinForce, "0")).To(Succeed())
			Expect(s.Params()[sim.ParamMinForce]).To(BeZero())
		})

		It("falls back to defaults on unusable input", func() {
			Expect(s.SetParam(sim.ParamTargetStep, 60)).To(Succeed())

			err := s.ParseParam(sim.ParamTargetStep, "soon")
			Expect(err).To(MatchError(body.ErrInvalidParameter))
			Expect(s.Params()[sim.ParamTargetStep]).To(Equal(integrator.DefaultTargetStep))
		})

		It("rejects names the policy does not have", func() {
			err := s.SetParam(sim.ParamSpeedCap, 1)
			Expect(err).To(MatchError(sim.ErrUnknownParam))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every member to completion", func() {
		legacy := newSim(integrator.NewFixedTarget(60), 0)
		exactCfg := sim.DefaultConfig()
		exactCfg.Policy = integrator.NewFixedTarget(60)
		exactCfg.Term = integrator.ExactTerm
		exactCfg.MinForce = 0
		exact := sim.New(exactCfg)

		for _, s := range []*sim.Simulation{legacy, exact} {
			mustCreate(s, body.WithName("Earth"), body.WithMass(earthMass), body.WithFrozen(true))
			mustCreate(s, body.WithName("Probe"), body.WithMass(1000), body.WithPosition(7.171e6, 0, 0))
		}

		results, err := sim.NewEnsemble(legacy, exact).Run(context.Background(), sim.RunOptions{MaxSteps: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		for _, r := range results {
			Expect(r.Steps).To(BeEquivalentTo(3))
		}

		a, _ := results[0].Final.Body("Probe")
		b, _ := results[1].Final.Body("Probe")
		Expect(a.Position[0]).NotTo(Equal(b.Position[0]))
	})
})
