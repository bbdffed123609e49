// Package analysis provides epidemic threshold and outbreak analysis tools.
//
//   - [Reproduction]: basic reproduction number R0 = beta/gamma
//   - [HerdImmunityThreshold]: immune fraction that stops growth, 1 - 1/R0
//   - [FinalSize]: analytic attack rate from the final-size relation
//   - [Summarize]: peak, timing and final state of a simulated trajectory
//   - [PhasePortrait]: trajectory in the S–I plane
//
// # Threshold behaviour
//
// An outbreak only grows when R0*S0/N > 1. Above the threshold the epidemic
// still stops before every susceptible is infected:
//
//	z := analysis.FinalSize(3, epidemic.Compartments{S: 999, I: 1})
//	// z ≈ 0.94, so about 6% are never infected
package analysis
