package sweep

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/epidemic"
)

// Grid is the cartesian product of transmission and recovery rates.
type Grid struct {
	Betas  []float64
	Gammas []float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func (g Grid) Size() int { return len(g.Betas) * len(g.Gammas) }

// Point is one simulated parameter combination.
type Point struct {
	Beta               float64 `json:"beta"`
	Gamma              float64 `json:"gamma"`
	R0                 float64 `json:"r0"`
	PeakInfected       float64 `json:"peak_infected"`
	PeakTime           float64 `json:"peak_time"`
	AttackRate         float64 `json:"attack_rate"`
	AnalyticAttackRate float64 `json:"analytic_attack_rate"`
}

type Options struct {
	Horizon float64
	Dt      float64
	Workers int
}

// Run simulates every grid point from c0. Runs are independent and spread
// over opts.Workers goroutines; results keep grid order (betas outer).
// The first failing run cancels the rest.
func Run(ctx context.Context, grid Grid, c0 epidemic.Compartments, opts Options) ([]Point, error) {
	points := make([]Point, grid.Size())

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for bi, beta := range grid.Betas {
		for gi, gamma := range grid.Gammas {
			idx := bi*len(grid.Gammas) + gi
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				p, err := runPoint(ctx, beta, gamma, c0, opts)
				if err != nil {
					return fmt.Errorf("beta=%g gamma=%g: %w", beta, gamma, err)
				}
				points[idx] = p
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// cancelCheckEvery is how many samples runPoint integrates between context
// checks.
const cancelCheckEvery = 1024

func runPoint(ctx context.Context, beta, gamma float64, c0 epidemic.Compartments, opts Options) (Point, error) {
	m, err := epidemic.FromInitial(beta, gamma, c0)
	if err != nil {
		return Point{}, err
	}
	if err := (dynamo.Config{Dt: opts.Dt, Duration: opts.Horizon}).Validate(); err != nil {
		return Point{}, err
	}

	n := dynamo.SampleCount(opts.Horizon, opts.Dt)
	traj := make(epidemic.Trajectory, 0, dynamo.Prealloc(n))
	for p := range m.Points(c0, opts.Horizon, opts.Dt) {
		if len(traj)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Point{}, err
			}
		}
		traj = append(traj, p)
	}

	sum := analysis.Summarize(m, traj)
	return Point{
		Beta:               beta,
		Gamma:              gamma,
		R0:                 sum.R0,
		PeakInfected:       sum.PeakInfected,
		PeakTime:           sum.PeakTime,
		AttackRate:         sum.AttackRate,
		AnalyticAttackRate: sum.AnalyticAttackRate,
	}, nil
}

// Threshold returns the smallest R0 among points whose attack rate exceeds
// cutoff; ok is false if none does.
func Threshold(points []Point, cutoff float64) (r0 float64, ok bool) {
	for _, p := range points {
		if p.AttackRate > cutoff && (!ok || p.R0 < r0) {
			r0, ok = p.R0, true
		}
	}
	return r0, ok
}
