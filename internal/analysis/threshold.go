package analysis

import (
	"math"

	"github.com/san-kum/episim/internal/epidemic"
)

const (
	bisectIters = 200
	bisectTol   = 1e-14
)

// Reproduction returns R0 = beta/gamma.
func Reproduction(beta, gamma float64) float64 {
	if gamma == 0 {
		if beta == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return beta / gamma
}

// HerdImmunityThreshold is 1 - 1/R0, or 0 when R0 <= 1.
func HerdImmunityThreshold(r0 float64) float64 {
	if r0 <= 1 {
		return 0
	}
	return 1 - 1/r0
}

// FinalSize returns the analytic attack rate (R(inf) - R(0)) / N of the
// continuous model started at c0. The limit s of S/N solves
//
//	s = s0 * exp(-R0 * (1 - s - r0))
//
// with s0, r0 the initial susceptible and recovered fractions. The root in
// (0, s0) is unique when I0 > 0 and is found by bisection.
func FinalSize(r0 float64, c0 epidemic.Compartments) float64 {
	n := c0.Total()
	if n <= 0 {
		return 0
	}
	s0, i0, rec0 := c0.S/n, c0.I/n, c0.R/n
	if i0 <= 0 {
		return 0
	}
	if s0 <= 0 || r0 == 0 {
		return i0
	}
	if math.IsInf(r0, 1) {
		return s0 + i0
	}

	f := func(s float64) float64 {
		return s - s0*math.Exp(-r0*(1-s-rec0))
	}

	lo, hi := 0.0, s0
	for k := 0; k < bisectIters && hi-lo > bisectTol; k++ {
		mid := 0.5 * (lo + hi)
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	sInf := 0.5 * (lo + hi)
	return s0 + i0 - sInf
}

// EffectiveReproduction is R0 scaled by the susceptible fraction.
func EffectiveReproduction(r0 float64, c epidemic.Compartments) float64 {
	n := c.Total()
	if n == 0 {
		return 0
	}
	return r0 * c.S / n
}
