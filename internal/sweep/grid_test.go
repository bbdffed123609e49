package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/epidemic"
)

var reference = epidemic.Compartments{S: 999, I: 1, R: 0}

func TestLinspace(t *testing.T) {
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))

	got := Linspace(0.05, 0.5, 10)
	require.Len(t, got, 10)
	assert.Equal(t, 0.05, got[0])
	assert.Equal(t, 0.5, got[9])
	assert.InDelta(t, 0.1, got[1], 1e-12)
}

func TestRunOrderedAndDeterministic(t *testing.T) {
	grid := Grid{Betas: Linspace(0.05, 0.5, 10), Gammas: []float64{0.1, 0.2}}
	opts := Options{Horizon: 200, Dt: 0.1, Workers: 4}

	points, err := Run(context.Background(), grid, reference, opts)
	require.NoError(t, err)
	require.Len(t, points, grid.Size())

	for bi, beta := range grid.Betas {
		for gi, gamma := range grid.Gammas {
			p := points[bi*len(grid.Gammas)+gi]
			assert.Equal(t, beta, p.Beta)
			assert.Equal(t, gamma, p.Gamma)
		}
	}

	serial, err := Run(context.Background(), grid, reference, Options{Horizon: 200, Dt: 0.1, Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, serial, points)
}

func TestRunThreshold(t *testing.T) {
	grid := Grid{Betas: Linspace(0.02, 0.4, 20), Gammas: []float64{0.1}}

	points, err := Run(context.Background(), grid, reference, Options{Horizon: 400, Dt: 0.1})
	require.NoError(t, err)

	for _, p := range points {
		if p.R0 < 0.9 {
			assert.Less(t, p.AttackRate, 0.02, "r0=%v", p.R0)
		}
		if p.R0 > 1.5 {
			assert.Greater(t, p.AttackRate, 0.3, "r0=%v", p.R0)
			assert.InDelta(t, p.AnalyticAttackRate, p.AttackRate, 0.02, "r0=%v", p.R0)
		}
	}

	r0, ok := Threshold(points, 0.1)
	require.True(t, ok)
	assert.Greater(t, r0, 1.0)
	assert.Less(t, r0, 1.5)
}

func TestRunInvalidPoint(t *testing.T) {
	grid := Grid{Betas: []float64{0.3, -1}, Gammas: []float64{0.1}}

	_, err := Run(context.Background(), grid, reference, Options{Horizon: 10, Dt: 0.1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid := Grid{Betas: Linspace(0.1, 0.5, 5), Gammas: []float64{0.1}}
	_, err := Run(ctx, grid, reference, Options{Horizon: 10, Dt: 0.1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThresholdNone(t *testing.T) {
	_, ok := Threshold([]Point{{R0: 0.5, AttackRate: 0.01}}, 0.1)
	assert.False(t, ok)
}

// cancelAfter reports cancellation once Err has been asked left times.
type cancelAfter struct {
	context.Context
	left int
}

func (c *cancelAfter) Err() error {
	if c.left == 0 {
		return context.Canceled
	}
	c.left--
	return nil
}

func TestRunPointStopsMidRun(t *testing.T) {
	ctx := &cancelAfter{Context: context.Background(), left: 2}

	_, err := runPoint(ctx, 0.3, 0.1, reference, Options{Horizon: 400, Dt: 0.1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ctx.left, "expected cancellation to be noticed between samples")
}

func TestRunPointRejectsOversizedGrid(t *testing.T) {
	_, err := runPoint(context.Background(), 0.3, 0.1, reference, Options{Horizon: 1e10, Dt: 1e-300})
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}
