package epidemic_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/epidemic"
	"github.com/san-kum/episim/internal/integrators"
)

var reference = epidemic.Compartments{S: 999, I: 1, R: 0}

func mustModel(beta, gamma, population float64) *epidemic.Model {
	m, err := epidemic.New(beta, gamma, population)
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Model construction", func() {
	DescribeTable("rejects out-of-domain parameters",
		func(beta, gamma, population float64) {
			m, err := epidemic.New(beta, gamma, population)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(m).To(BeNil())
		},
		Entry("zero population", 0.3, 0.1, 0.0),
		Entry("negative population", 0.3, 0.1, -10.0),
		Entry("negative beta", -0.3, 0.1, 1000.0),
		Entry("negative gamma", 0.3, -0.1, 1000.0),
		Entry("NaN beta", math.NaN(), 0.1, 1000.0),
		Entry("infinite population", 0.3, 0.1, math.Inf(1)),
	)

	It("accepts zero rates", func() {
		_, err := epidemic.New(0, 0, 1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("derives the population from the initial state", func() {
		m, err := epidemic.FromInitial(0.3, 0.1, reference)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Params().Population).To(Equal(1000.0))
	})

	It("rejects an empty initial population", func() {
		_, err := epidemic.FromInitial(0.3, 0.1, epidemic.Compartments{})
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("reports the basic reproduction number", func() {
		Expect(mustModel(0.3, 0.1, 1000).BasicReproduction()).To(BeNumerically("~", 3.0, 1e-12))
		Expect(math.IsInf(mustModel(0.3, 0, 1000).BasicReproduction(), 1)).To(BeTrue())
		Expect(mustModel(0, 0, 1000).BasicReproduction()).To(BeZero())
	})
})

var _ = Describe("Derivatives and Step", func() {
	m := mustModel(0.3, 0.1, 1000)

	It("matches the hand-computed first step", func() {
		d := m.Derivatives(reference)
		Expect(d.S).To(BeNumerically("~", -0.2997, 1e-12))
		Expect(d.I).To(BeNumerically("~", 0.1997, 1e-12))
		Expect(d.R).To(BeNumerically("~", 0.1, 1e-12))

		next := m.Step(reference, 1.0)
		Expect(next.S).To(BeNumerically("~", 998.7003, 1e-9))
		Expect(next.I).To(BeNumerically("~", 1.1997, 1e-9))
		Expect(next.R).To(BeNumerically("~", 0.1, 1e-9))
	})

	It("produces derivatives that cancel", func() {
		d := m.Derivatives(epidemic.Compartments{S: 512.25, I: 300.5, R: 187.25})
		Expect(d.S + d.I + d.R).To(BeNumerically("~", 0, 1e-12))
	})

	It("ignores time in the system adapter", func() {
		x := reference.Vector()
		Expect(m.Derive(x, 0)).To(Equal(m.Derive(x, 42)))
		Expect(m.StateDim()).To(Equal(3))
		Expect(m.Invariant(x)).To(Equal(1000.0))
	})

	It("does not clamp negative compartments from large steps", func() {
		fast := mustModel(0.3, 1.5, 10)
		next := fast.Step(epidemic.Compartments{S: 0, I: 10, R: 0}, 1.0)
		Expect(next.I).To(BeNumerically("<", 0))
		Expect(next.I).To(BeNumerically("~", -5, 1e-12))
		Expect(next.Total()).To(BeNumerically("~", 10, 1e-12))
	})
})

var _ = Describe("Simulate", func() {
	m := mustModel(0.3, 0.1, 1000)

	It("samples both ends of an inclusive grid", func() {
		traj, err := m.Simulate(reference, 10, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj).To(HaveLen(11))
		for i, p := range traj {
			Expect(p.Time).To(Equal(float64(i)))
		}
		Expect(traj[0].State).To(Equal(reference))
	})

	It("takes floor(tEnd/dt)+1 samples for fractional steps", func() {
		traj, err := m.Simulate(reference, 160, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj).To(HaveLen(1601))
		last, ok := traj.Final()
		Expect(ok).To(BeTrue())
		Expect(last.Time).To(BeNumerically("~", 160, 1e-9))
	})

	It("returns a single sample for a zero horizon", func() {
		traj, err := m.Simulate(reference, 0, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj).To(Equal(epidemic.Trajectory{{Time: 0, State: reference}}))
	})

	It("returns an empty trajectory for a negative horizon", func() {
		traj, err := m.Simulate(reference, -1, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj).To(BeEmpty())
		_, ok := traj.Final()
		Expect(ok).To(BeFalse())
	})

	DescribeTable("rejects an unusable time grid",
		func(tEnd, dt float64) {
			_, err := m.Simulate(reference, tEnd, dt)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		},
		Entry("zero dt", 10.0, 0.0),
		Entry("negative dt", 10.0, -0.1),
		Entry("NaN dt", 10.0, math.NaN()),
		Entry("NaN horizon", math.NaN(), 0.1),
		Entry("infinite horizon", math.Inf(1), 0.1),
		Entry("step count overflows", 1e10, 1e-300),
		Entry("too many samples", 1e6, 1e-9),
	)

	It("yields nothing from Points for an oversized grid", func() {
		n := 0
		for range m.Points(reference, 1e10, 1e-300) {
			n++
		}
		Expect(n).To(BeZero())
	})

	It("includes the end point up to rounding", func() {
		traj, err := m.Simulate(reference, 0.3, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj).To(HaveLen(4))
		Expect(traj[3].Time).To(BeNumerically("~", 0.3, 1e-15))
	})

	It("conserves the population at every sample", func() {
		traj, err := m.Simulate(reference, 160, 0.1)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range traj {
			Expect(math.Abs(p.State.Total()-1000) / 1000).To(BeNumerically("<", 1e-9))
		}
	})

	It("never decreases the recovered count", func() {
		traj, err := m.Simulate(reference, 160, 0.1)
		Expect(err).NotTo(HaveOccurred())
		for k := 1; k < len(traj); k++ {
			Expect(traj[k].State.R).To(BeNumerically(">=", traj[k-1].State.R))
		}
	})

	It("keeps an infection-free population fixed", func() {
		c0 := epidemic.Compartments{S: 900, I: 0, R: 100}
		traj, err := m.Simulate(c0, 50, 0.5)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range traj {
			Expect(p.State).To(Equal(c0))
		}
	})

	It("is deterministic", func() {
		a, err := m.Simulate(reference, 160, 0.1)
		Expect(err).NotTo(HaveOccurred())
		b, err := m.Simulate(reference, 160, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("burns out before exhausting the susceptibles", func() {
		traj, err := m.Simulate(reference, 160, 0.1)
		Expect(err).NotTo(HaveOccurred())

		_, infected, _ := traj.Series()
		peak, peakAt := 0.0, 0
		for k, v := range infected {
			if v > peak {
				peak, peakAt = v, k
			}
		}
		Expect(peak).To(BeNumerically(">", 100))
		Expect(peakAt).To(BeNumerically(">", 0))
		Expect(peakAt).To(BeNumerically("<", len(traj)-1))

		last, _ := traj.Final()
		Expect(last.State.I).To(BeNumerically("<", 1))
		Expect(last.State.S).To(BeNumerically(">", 0))
		Expect(last.State.S).To(BeNumerically("~", 60, 20))
		Expect(last.State.R).To(BeNumerically("<", 1000))
	})

	It("streams the same samples it materialises", func() {
		traj, err := m.Simulate(reference, 20, 0.25)
		Expect(err).NotTo(HaveOccurred())

		var streamed epidemic.Trajectory
		for p := range m.Points(reference, 20, 0.25) {
			streamed = append(streamed, p)
		}
		Expect(streamed).To(Equal(traj))
	})

	It("stops streaming when the consumer stops", func() {
		n := 0
		for p := range m.Points(reference, 20, 0.25) {
			n++
			if p.Time >= 1 {
				break
			}
		}
		Expect(n).To(Equal(5))
	})

	It("streams nothing for an invalid step", func() {
		n := 0
		for range m.Points(reference, 20, 0) {
			n++
		}
		Expect(n).To(BeZero())
	})

	It("matches the generic simulator driven by the Euler integrator", func() {
		traj, err := m.Simulate(reference, 160, 0.1)
		Expect(err).NotTo(HaveOccurred())

		s := dynamo.New(m, integrators.NewEuler())
		res, err := s.Run(context.Background(), reference.Vector(), dynamo.Config{Dt: 0.1, Duration: 160})
		Expect(err).NotTo(HaveOccurred())
		Expect(epidemic.FromResult(res)).To(Equal(traj))
		Expect(res.Drift).To(BeNumerically("<", 1e-9))
	})
})
