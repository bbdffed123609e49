package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/logging"
)

var (
	dataDir   string
	logLevel  string
	logOutput io.Writer = os.Stderr
	logger              = logging.Discard()

	beta       float64
	gamma      float64
	s0         float64
	i0         float64
	r0         float64
	dt         float64
	duration   float64
	integrator string
	configFile string
	preset     string
	showPlot   bool
	dumpCSV    bool

	// plot
	plotWidth  int
	plotHeight int
	plotOnly   []string

	// export
	outFile   string
	svgWidth  int
	svgHeight int

	// sweep
	betaMin    float64
	betaMax    float64
	sweepSteps int
	workers    int
	cutoff     float64
	horizon    float64
)

// main wires the episim commands. Without a subcommand it opens the
// interactive input form. Any command error is logged and exits with status 1.
func main() {
	rootCmd := &cobra.Command{
		Use:           "episim",
		Short:         "deterministic SIR epidemic simulator",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logLevel, logOutput)
		},
		RunE: promptSimulation,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")

	promptCmd := &cobra.Command{
		Use:   "prompt",
		Short: "enter parameters interactively, then simulate",
		RunE:  promptSimulation,
	}
	for _, c := range []*cobra.Command{rootCmd, promptCmd} {
		c.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
		c.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulation horizon")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run and store a simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the trajectory")
	runCmd.Flags().BoolVar(&dumpCSV, "csv", false, "write the trajectory as CSV to stdout")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators on the same inputs",
		Args:  cobra.NoArgs,
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")
	plotCmd.Flags().StringSliceVar(&plotOnly, "only", nil, "compartments to plot (S, I, R)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "S-I phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run plot to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	_ = exportSVGCmd.MarkFlagRequired("output")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the transmission rate and report outbreak size",
		Args:  cobra.NoArgs,
		RunE:  sweepRates,
	}
	sweepCmd.Flags().Float64Var(&betaMin, "beta-min", 0.05, "lowest transmission rate")
	sweepCmd.Flags().Float64Var(&betaMax, "beta-max", 0.5, "highest transmission rate")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of transmission rates")
	sweepCmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "recovery rate")
	sweepCmd.Flags().Float64Var(&s0, "s0", config.DefaultS, "initial susceptible")
	sweepCmd.Flags().Float64Var(&i0, "i0", config.DefaultI, "initial infectious")
	sweepCmd.Flags().Float64Var(&r0, "r0", config.DefaultR, "initial recovered")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().Float64Var(&horizon, "time", 400, "simulation horizon")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	sweepCmd.Flags().Float64Var(&cutoff, "cutoff", 0.05, "attack rate that counts as an outbreak")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and store every step of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(promptCmd, runCmd, compareCmd, listCmd, showCmd, plotCmd, phaseCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, sweepCmd, scenarioCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Flag errors happen before PersistentPreRun sets up logger.
		logging.NewLogger(logLevel, os.Stderr).Error("command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultBeta, "transmission rate")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "recovery rate")
	cmd.Flags().Float64Var(&s0, "s0", config.DefaultS, "initial susceptible")
	cmd.Flags().Float64Var(&i0, "i0", config.DefaultI, "initial infectious")
	cmd.Flags().Float64Var(&r0, "r0", config.DefaultR, "initial recovered")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulation horizon")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}
