// Package body holds the simulated point masses and the registry that owns them.
//
// A [Registry] is an insertion-ordered set of uniquely named [Body] values.
// Bodies are created through [Registry.Create] with functional options and are
// never removed during a run:
//
//	reg := body.NewRegistry()
//	name, _ := reg.Create(body.WithName("Earth"), body.WithMass(5.972e24), body.WithFrozen(true))
//	earth, _ := reg.Get(name)
//
// # Naming
//
// A requested name that is empty or already taken is silently replaced by a
// generated "Body N" name, where N is the current body count plus one. The
// final name is returned by Create. No error is raised for collisions.
//
// # Thread Safety
//
// Registry is NOT thread-safe. The simulation context in package sim
// serializes access to it.
package body
