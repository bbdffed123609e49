package epidemic

import (
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/dynamo"
)

// Params are the SIR rates and the total population N.
type Params struct {
	Beta       float64 `json:"beta" yaml:"beta"`
	Gamma      float64 `json:"gamma" yaml:"gamma"`
	Population float64 `json:"population" yaml:"population"`
}

// Validate rejects non-finite values, negative rates and a non-positive
// population.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"beta", p.Beta},
		{"gamma", p.Gamma},
		{"population", p.Population},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", dynamo.ErrParameterBounds, f.name, f.v)
		}
	}
	if p.Beta < 0 {
		return fmt.Errorf("%w: beta must be non-negative, got %v", dynamo.ErrParameterBounds, p.Beta)
	}
	if p.Gamma < 0 {
		return fmt.Errorf("%w: gamma must be non-negative, got %v", dynamo.ErrParameterBounds, p.Gamma)
	}
	if p.Population <= 0 {
		return fmt.Errorf("%w: population must be positive, got %v", dynamo.ErrParameterBounds, p.Population)
	}
	return nil
}

// Model is the SIR system for one parameter set. The zero value is not
// usable; construct it with New or FromInitial.
type Model struct {
	params Params
}

func New(beta, gamma, population float64) (*Model, error) {
	p := Params{Beta: beta, Gamma: gamma, Population: population}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{params: p}, nil
}

// FromInitial takes the population to be S0+I0+R0.
func FromInitial(beta, gamma float64, c0 Compartments) (*Model, error) {
	return New(beta, gamma, c0.Total())
}

func (m *Model) Params() Params { return m.params }

// BasicReproduction returns R0 = beta/gamma. It is +Inf when gamma is zero
// and beta is not.
func (m *Model) BasicReproduction() float64 {
	if m.params.Gamma == 0 {
		if m.params.Beta == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return m.params.Beta / m.params.Gamma
}

// Derivatives evaluates the right-hand side at c. The infection and
// recovery fluxes are computed once and reused, so dS+dI+dR cancels
// algebraically and only rounding separates it from zero.
func (m *Model) Derivatives(c Compartments) Compartments {
	infection := m.params.Beta * c.S * c.I / m.params.Population
	recovery := m.params.Gamma * c.I
	return Compartments{
		S: -infection,
		I: infection - recovery,
		R: recovery,
	}
}

// Step advances c by one forward Euler step of size dt, using the derivative
// at c.
func (m *Model) Step(c Compartments, dt float64) Compartments {
	d := m.Derivatives(c)
	return Compartments{
		S: c.S + dt*d.S,
		I: c.I + dt*d.I,
		R: c.R + dt*d.R,
	}
}

// Derive implements dynamo.System. The system is autonomous, so t is unused.
func (m *Model) Derive(x dynamo.State, t float64) dynamo.State {
	return m.Derivatives(FromVector(x)).Vector()
}

func (m *Model) StateDim() int { return 3 }

// Invariant implements dynamo.Conserved: the total population S+I+R.
func (m *Model) Invariant(x dynamo.State) float64 {
	return FromVector(x).Total()
}
