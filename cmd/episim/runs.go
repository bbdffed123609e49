package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/epidemic"
	"github.com/san-kum/episim/internal/export"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBETA\tGAMMA\tPOP\tDURATION\tDT\tINTEG\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Beta,
			run.Params.Gamma,
			run.Params.Population,
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Samples,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, epidemic.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(traj) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	logger.Debug("run loaded", "id", runID, "samples", len(traj))
	return meta, traj, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("beta: %g  gamma: %g  population: %g\n", meta.Params.Beta, meta.Params.Gamma, meta.Params.Population)
	fmt.Printf("dt: %g  duration: %g  integrator: %s\n\n", meta.Dt, meta.Duration, meta.Integrator)

	opts := viz.PlotOptions{
		Width:   plotWidth,
		Height:  plotHeight,
		Caption: "time →",
		Only:    plotOnly,
	}
	fmt.Println(viz.PlotTrajectory(traj, opts))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.PhasePortrait(traj)
	fmt.Printf("phase portrait: %s vs %s (run %s)\n\n", portrait.YLabel, portrait.XLabel, meta.ID)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 25))
	return nil
}

// output returns stdout, or the file named by -o. The caller closes it.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, traj); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, *meta, traj); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(traj, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("not enough samples to draw run %s", args[0])
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", "file", outFile)
	return nil
}
