package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epidemic"
	"github.com/san-kum/episim/internal/sweep"
	"github.com/san-kum/episim/internal/viz"
)

func sweepRates(cmd *cobra.Command, args []string) error {
	if sweepSteps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", sweepSteps)
	}
	if err := validateSweep(); err != nil {
		return err
	}

	grid := sweep.Grid{
		Betas:  sweep.Linspace(betaMin, betaMax, sweepSteps),
		Gammas: []float64{gamma},
	}
	c0 := epidemic.Compartments{S: s0, I: i0, R: r0}

	logger.Info("sweep started", "points", grid.Size(), "workers", workers)
	start := time.Now()

	points, err := sweep.Run(cmd.Context(), grid, c0, sweep.Options{
		Horizon: horizon,
		Dt:      dt,
		Workers: workers,
	})
	if err != nil {
		return err
	}
	logger.Info("sweep completed", "elapsed", time.Since(start))

	header := []string{"BETA", "R0", "PEAK I", "PEAK T", "ATTACK", "ANALYTIC"}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			strconv.FormatFloat(p.Beta, 'f', 4, 64),
			strconv.FormatFloat(p.R0, 'f', 3, 64),
			strconv.FormatFloat(p.PeakInfected, 'f', 2, 64),
			strconv.FormatFloat(p.PeakTime, 'f', 2, 64),
			strconv.FormatFloat(100*p.AttackRate, 'f', 2, 64) + "%",
			strconv.FormatFloat(100*p.AnalyticAttackRate, 'f', 2, 64) + "%",
		})
	}
	fmt.Print(viz.RenderTable(header, rows))

	if th, ok := sweep.Threshold(points, cutoff); ok {
		fmt.Printf("\noutbreak (attack rate > %g%%) from R0 = %.3f\n", 100*cutoff, th)
	} else {
		fmt.Printf("\nno outbreak above %g%% attack rate in this range\n", 100*cutoff)
	}
	return nil
}

// validateSweep checks both ends of the beta range together with the shared
// inputs, the same way run and scenario check theirs. Every beta in between
// lies inside the range.
func validateSweep() error {
	for _, b := range []float64{betaMin, betaMax} {
		cfg := config.DefaultConfig()
		cfg.Beta = b
		cfg.Gamma = gamma
		cfg.Initial = config.InitialConfig{S: s0, I: i0, R: r0}
		cfg.Dt = dt
		cfg.Duration = horizon
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	return nil
}
