// Package epidemic implements the deterministic SIR compartmental model and
// its fixed-step explicit Euler integrator.
//
// The population is split into Susceptible, Infectious and Recovered
// compartments:
//
//	dS/dt = -beta*S*I/N
//	dI/dt =  beta*S*I/N - gamma*I
//	dR/dt =  gamma*I
//
// The three derivatives sum to zero, so every Euler step preserves S+I+R up
// to rounding. Euler can still overshoot: with dt large relative to 1/beta or
// 1/gamma a compartment may go negative. Values are never clamped or
// renormalised; callers that care should watch metrics.NonNegativity.
//
// A [Model] is immutable and safe for concurrent use.
package epidemic
