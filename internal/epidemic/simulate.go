package epidemic

import (
	"iter"

	"github.com/san-kum/episim/internal/dynamo"
)

// Simulate integrates from c0 and records samples at t = i*dt for every
// t <= tEnd, both ends inclusive. Time comes from the step index, so the
// sample count is floor(tEnd/dt)+1 and does not depend on rounding drift.
// A negative tEnd yields an empty trajectory.
func (m *Model) Simulate(c0 Compartments, tEnd, dt float64) (Trajectory, error) {
	if err := (dynamo.Config{Dt: dt, Duration: tEnd}).Validate(); err != nil {
		return nil, err
	}

	traj := make(Trajectory, 0, dynamo.Prealloc(dynamo.SampleCount(tEnd, dt)))
	for p := range m.Points(c0, tEnd, dt) {
		traj = append(traj, p)
	}
	return traj, nil
}

// Points is the streaming form of Simulate. It yields the same samples when
// fully consumed. An invalid dt or tEnd yields nothing; use Simulate to get
// the error.
func (m *Model) Points(c0 Compartments, tEnd, dt float64) iter.Seq[TimePoint] {
	return func(yield func(TimePoint) bool) {
		if (dynamo.Config{Dt: dt, Duration: tEnd}).Validate() != nil {
			return
		}
		n := dynamo.SampleCount(tEnd, dt)
		c := c0
		for i := 0; i < n; i++ {
			if !yield(TimePoint{Time: float64(i) * dt, State: c}) {
				return
			}
			if i < n-1 {
				c = m.Step(c, dt)
			}
		}
	}
}
