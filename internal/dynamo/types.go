package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

// System is an autonomous or time-dependent ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Conserved is implemented by systems with a first integral, such as the
// total population of a closed compartmental model.
type Conserved interface {
	Invariant(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

// MaxSamples bounds the grid length a Config may describe.
const MaxSamples = 1 << 30

// PreallocLimit caps the capacity reserved up front for a run's samples.
// Longer runs grow their buffers as they go.
const PreallocLimit = 1 << 16

// Validate reports whether the time grid is usable. A negative duration is
// allowed and produces an empty result.
func (c Config) Validate() error {
	if math.IsNaN(c.Dt) || c.Dt <= 0 || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", ErrParameterBounds, c.Dt)
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be finite, got %v", ErrParameterBounds, c.Duration)
	}
	// An overflowing ratio is +Inf and fails the comparison too.
	if steps := c.Duration / c.Dt; c.Duration >= 0 && !(steps+gridTolerance < MaxSamples) {
		return fmt.Errorf("%w: duration/dt = %v exceeds %d samples", ErrParameterBounds, steps, MaxSamples)
	}
	return nil
}

// gridTolerance is an absolute slack on duration/dt, a count of steps, so
// that 0.3/0.1 (2.9999999999999996 in floating point) still counts 4
// samples. The last sample may therefore sit a few ulps past duration:
// here it is 3*0.1 = 0.30000000000000004.
const gridTolerance = 1e-9

// SampleCount returns how many samples an inclusive grid t = i*dt, t <= duration
// holds. Time is computed from the step index rather than accumulated, so the
// count does not depend on rounding drift. Grids that Validate rejects for
// length count as 0.
func SampleCount(duration, dt float64) int {
	if duration < 0 {
		return 0
	}
	steps := math.Floor(duration/dt + gridTolerance)
	if !(steps < MaxSamples) {
		return 0
	}
	return int(steps) + 1
}

// Prealloc is the capacity to reserve for n samples.
func Prealloc(n int) int { return min(n, PreallocLimit) }

type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	Drift      float64
	StepsTaken int
	Errors     []error
}
