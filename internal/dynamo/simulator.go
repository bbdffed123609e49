package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over the inclusive grid t = i*dt, t <= cfg.Duration,
// and returns every sample. The last sample is not advanced further.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dim := s.dyn.StateDim(); dim > 0 && len(x0) != dim {
		return nil, fmt.Errorf("%w: state has %d components, system expects %d", ErrDimensionMismatch, len(x0), dim)
	}

	n := SampleCount(cfg.Duration, cfg.Dt)
	result := &Result{
		States:  make([]State, 0, Prealloc(n)),
		Times:   make([]float64, 0, Prealloc(n)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	initial := s.invariant(x)

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{
				Step:    i,
				Time:    t,
				State:   x.Clone(),
				Wrapped: ErrInvalidState,
			})
			break
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)

		if i == n-1 {
			break
		}
		x = s.integrator.Step(s.dyn, x, t, cfg.Dt)
		result.StepsTaken++
	}

	if initial != 0 && len(result.States) > 0 {
		final := s.invariant(result.States[len(result.States)-1])
		result.Drift = math.Abs(final-initial) / math.Abs(initial)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) invariant(x State) float64 {
	if c, ok := s.dyn.(Conserved); ok {
		return c.Invariant(x)
	}
	return 0
}

// RunWithCallback walks the same grid as Run without retaining samples.
// Returning false from callback stops the run without error.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	n := SampleCount(cfg.Duration, cfg.Dt)
	x := x0.Clone()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrInvalidState}
		}

		if !callback(x, t) {
			return nil
		}

		if i < n-1 {
			x = s.integrator.Step(s.dyn, x, t, cfg.Dt)
		}
	}

	return nil
}
