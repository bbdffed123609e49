package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/episim/internal/epidemic"
)

// Summary condenses one run into the numbers the CLI reports.
type Summary struct {
	R0                 float64               `json:"r0"`
	HerdImmunity       float64               `json:"herd_immunity"`
	PeakInfected       float64               `json:"peak_infected"`
	PeakTime           float64               `json:"peak_time"`
	Final              epidemic.Compartments `json:"final"`
	AttackRate         float64               `json:"attack_rate"`
	AnalyticAttackRate float64               `json:"analytic_attack_rate"`
	MinCompartment     float64               `json:"min_compartment"`
	Samples            int                   `json:"samples"`
}

// Summarize inspects traj produced by m. An empty trajectory yields a
// summary holding only the parameter-derived values.
func Summarize(m *epidemic.Model, traj epidemic.Trajectory) Summary {
	r0 := m.BasicReproduction()
	sum := Summary{
		R0:           r0,
		HerdImmunity: HerdImmunityThreshold(r0),
		Samples:      len(traj),
	}
	if len(traj) == 0 {
		return sum
	}

	s, i, r := traj.Series()
	peak := floats.MaxIdx(i)
	sum.PeakInfected = i[peak]
	sum.PeakTime = traj[peak].Time
	sum.MinCompartment = min(floats.Min(s), floats.Min(i), floats.Min(r))

	last, _ := traj.Final()
	sum.Final = last.State
	sum.AttackRate = (last.State.R - traj[0].State.R) / m.Params().Population
	sum.AnalyticAttackRate = FinalSize(r0, traj[0].State)
	return sum
}
