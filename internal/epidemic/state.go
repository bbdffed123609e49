package epidemic

import "github.com/san-kum/episim/internal/dynamo"

// Compartments is one (S, I, R) triple.
type Compartments struct {
	S float64 `json:"s"`
	I float64 `json:"i"`
	R float64 `json:"r"`
}

func (c Compartments) Total() float64 { return c.S + c.I + c.R }

func (c Compartments) Vector() dynamo.State { return dynamo.State{c.S, c.I, c.R} }

// FromVector reads the first three components of x; missing ones are zero.
func FromVector(x dynamo.State) Compartments {
	var c Compartments
	if len(x) > 0 {
		c.S = x[0]
	}
	if len(x) > 1 {
		c.I = x[1]
	}
	if len(x) > 2 {
		c.R = x[2]
	}
	return c
}

type TimePoint struct {
	Time  float64      `json:"t"`
	State Compartments `json:"state"`
}

// Trajectory is ordered by strictly increasing time.
type Trajectory []TimePoint

func (tr Trajectory) Times() []float64 {
	out := make([]float64, len(tr))
	for i, p := range tr {
		out[i] = p.Time
	}
	return out
}

// Series splits the trajectory into per-compartment slices.
func (tr Trajectory) Series() (s, i, r []float64) {
	s = make([]float64, len(tr))
	i = make([]float64, len(tr))
	r = make([]float64, len(tr))
	for k, p := range tr {
		s[k], i[k], r[k] = p.State.S, p.State.I, p.State.R
	}
	return s, i, r
}

// Final returns the last sample; ok is false for an empty trajectory.
func (tr Trajectory) Final() (TimePoint, bool) {
	if len(tr) == 0 {
		return TimePoint{}, false
	}
	return tr[len(tr)-1], true
}

// FromResult converts a generic simulation result into a trajectory.
func FromResult(res *dynamo.Result) Trajectory {
	if res == nil {
		return nil
	}
	tr := make(Trajectory, len(res.States))
	for i := range res.States {
		tr[i] = TimePoint{Time: res.Times[i], State: FromVector(res.States[i])}
	}
	return tr
}
