package dynamo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState marks a state holding NaN or Inf. Only reported when
	// Config.ValidateState is set; otherwise non-finite values propagate.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds marks a model parameter or time grid outside its domain.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	ErrContextCanceled   = errors.New("dynamo: simulation canceled by context")
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError records where on the time grid a run failed.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
