package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/automation"
	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/viz"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	applyLogLevel(cmd, sc.LogLevel)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	header := []string{"STEP", "RUN ID", "R0", "PEAK I", "PEAK T", "ATTACK"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		cfg := r.Step.Config
		runID, err := st.Save(storage.RunMetadata{
			Params:     r.Outcome.Model.Params(),
			Initial:    cfg.InitialState(),
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
			Integrator: cfg.Integrator,
			Metrics:    r.Outcome.Result.Metrics,
		}, r.Outcome.Trajectory)
		if err != nil {
			return err
		}

		sum := analysis.Summarize(r.Outcome.Model, r.Outcome.Trajectory)
		rows = append(rows, []string{
			r.Step.Name,
			runID,
			strconv.FormatFloat(sum.R0, 'f', 3, 64),
			strconv.FormatFloat(sum.PeakInfected, 'f', 2, 64),
			strconv.FormatFloat(sum.PeakTime, 'f', 2, 64),
			strconv.FormatFloat(100*sum.AttackRate, 'f', 2, 64) + "%",
		})
	}

	if sc.Name != "" {
		fmt.Println(viz.Title.Render(sc.Name))
	}
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}
	fmt.Print(viz.RenderTable(header, rows))
	return nil
}
