package metrics

import (
	"math"

	"github.com/san-kum/episim/internal/dynamo"
)

// State layout shared with epidemic.Compartments.Vector.
const (
	idxS = 0
	idxI = 1
	idxR = 2
)

// PeakInfected is the largest I seen.
type PeakInfected struct {
	name string
	peak float64
	seen bool
}

func NewPeakInfected() *PeakInfected {
	return &PeakInfected{name: "peak_infected"}
}

func (p *PeakInfected) Name() string { return p.name }

func (p *PeakInfected) Observe(x dynamo.State, t float64) {
	if len(x) <= idxI {
		return
	}
	if !p.seen || x[idxI] > p.peak {
		p.peak = x[idxI]
		p.seen = true
	}
}

func (p *PeakInfected) Value() float64 { return p.peak }

func (p *PeakInfected) Reset() {
	p.peak = 0
	p.seen = false
}

// PeakTime is the time at which I first reached its maximum.
type PeakTime struct {
	name string
	peak float64
	at   float64
	seen bool
}

func NewPeakTime() *PeakTime {
	return &PeakTime{name: "peak_time"}
}

func (p *PeakTime) Name() string { return p.name }

func (p *PeakTime) Observe(x dynamo.State, t float64) {
	if len(x) <= idxI {
		return
	}
	if !p.seen || x[idxI] > p.peak {
		p.peak = x[idxI]
		p.at = t
		p.seen = true
	}
}

func (p *PeakTime) Value() float64 { return p.at }

func (p *PeakTime) Reset() {
	p.peak = 0
	p.at = 0
	p.seen = false
}

// FinalSize is the attack rate: the recovered fraction at the last sample,
// net of those already recovered at the first.
type FinalSize struct {
	name       string
	population float64
	initialR   float64
	lastR      float64
	samples    int
}

func NewFinalSize(population float64) *FinalSize {
	return &FinalSize{name: "attack_rate", population: population}
}

func (f *FinalSize) Name() string { return f.name }

func (f *FinalSize) Observe(x dynamo.State, t float64) {
	if len(x) <= idxR {
		return
	}
	if f.samples == 0 {
		f.initialR = x[idxR]
	}
	f.lastR = x[idxR]
	f.samples++
}

func (f *FinalSize) Value() float64 {
	if f.samples == 0 || f.population == 0 {
		return 0
	}
	return (f.lastR - f.initialR) / f.population
}

func (f *FinalSize) Reset() {
	f.initialR = 0
	f.lastR = 0
	f.samples = 0
}

// MinSusceptible is the smallest S seen; it only differs from the final S
// when Euler overshoots.
type MinSusceptible struct {
	name string
	min  float64
}

func NewMinSusceptible() *MinSusceptible {
	return &MinSusceptible{name: "min_susceptible", min: math.Inf(1)}
}

func (m *MinSusceptible) Name() string { return m.name }

func (m *MinSusceptible) Observe(x dynamo.State, t float64) {
	if len(x) <= idxS {
		return
	}
	m.min = math.Min(m.min, x[idxS])
}

func (m *MinSusceptible) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSusceptible) Reset() { m.min = math.Inf(1) }

// Default is the metric set attached to every CLI run.
func Default(population float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewPeakInfected(),
		NewPeakTime(),
		NewFinalSize(population),
		NewMinSusceptible(),
		NewConservationDrift(),
		NewNonNegativity(),
	}
}
