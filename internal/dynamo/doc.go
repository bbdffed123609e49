// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Simulator]: orchestrates simulation runs
//
// # Time grid
//
// Samples are taken at t = i*dt for i = 0..n with n*dt <= duration, both
// ends inclusive. See [SampleCount].
//
// # Example
//
//	m, _ := epidemic.New(0.3, 0.1, 1000)
//	s := dynamo.New(m, integrators.NewEuler())
//	result, _ := s.Run(ctx, dynamo.State{999, 1, 0}, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe, because metrics carry state.
// For parallel runs build one Simulator per goroutine.
package dynamo
