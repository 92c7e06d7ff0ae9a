// Package sim ties the registry, force evaluator, integrator and clock into a
// single simulation context.
//
// A [Simulation] owns all mutable state; there are no package globals. It is
// advanced one step at a time by an external driver, either by calling
// [Simulation.Step] directly (tests, a UI tick) or through the free-running
// [Simulation.Run] loop:
//
//	s := sim.New(sim.DefaultConfig())
//	s.CreateBody(body.WithName("Earth"), body.WithMass(5.972e24), body.WithFrozen(true))
//	s.CreateBody(body.WithName("Moon"), body.WithMass(7.35e22), body.WithPosition(-3.85e8, 0, 0))
//	result, _ := s.Run(ctx, sim.RunOptions{MaxSteps: 1000})
//
// # Thread Safety
//
// Steps are serialized. Snapshot, Body and Params may be called from other
// goroutines while a run is in progress; they see the state between steps.
package sim
