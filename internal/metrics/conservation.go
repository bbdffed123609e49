package metrics

import (
	"math"

	"github.com/san-kum/episim/internal/dynamo"
)

// ConservationDrift tracks the largest relative deviation of S+I+R from the
// first observed total.
type ConservationDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewConservationDrift() *ConservationDrift {
	return &ConservationDrift{name: "conservation_drift"}
}

func (c *ConservationDrift) Name() string { return c.name }

func (c *ConservationDrift) Observe(x dynamo.State, t float64) {
	total := x.Sum()
	if c.samples == 0 {
		c.initial = total
	}
	c.samples++

	if c.initial != 0 {
		drift := math.Abs(total-c.initial) / math.Abs(c.initial)
		c.maxDrift = math.Max(c.maxDrift, drift)
	}
}

func (c *ConservationDrift) Value() float64 { return c.maxDrift }

func (c *ConservationDrift) Reset() {
	c.initial = 0
	c.maxDrift = 0
	c.samples = 0
}

// NonNegativity is the fraction of samples whose compartments are all
// non-negative. Explicit Euler can overshoot below zero for large steps;
// the integrator does not clamp, so this is where it shows up.
type NonNegativity struct {
	name       string
	violations int
	samples    int
}

func NewNonNegativity() *NonNegativity {
	return &NonNegativity{name: "non_negative"}
}

func (n *NonNegativity) Name() string { return n.name }

func (n *NonNegativity) Observe(x dynamo.State, t float64) {
	n.samples++
	for _, val := range x {
		if val < 0 {
			n.violations++
			break
		}
	}
}

func (n *NonNegativity) Value() float64 {
	if n.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(n.violations)/float64(n.samples)
}

func (n *NonNegativity) Violations() int { return n.violations }

func (n *NonNegativity) Reset() {
	n.violations = 0
	n.samples = 0
}
