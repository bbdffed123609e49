package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/experiment"
	"github.com/san-kum/episim/internal/logging"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/tui"
	"github.com/san-kum/episim/internal/viz"
)

// driftTolerance is the relative population change above which a run is
// reported as not conserving S+I+R.
const driftTolerance = 1e-9

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("beta") {
		cfg.Beta = beta
	}
	if flags.Changed("gamma") {
		cfg.Gamma = gamma
	}
	if flags.Changed("s0") {
		cfg.Initial.S = s0
	}
	if flags.Changed("i0") {
		cfg.Initial.I = i0
	}
	if flags.Changed("r0") {
		cfg.Initial.R = r0
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyLogLevel switches the logger to level, the log_level of a config file
// or scenario, unless --log-level was given explicitly.
func applyLogLevel(cmd *cobra.Command, level string) {
	if f := cmd.Flag("log-level"); level == "" || (f != nil && f.Changed) {
		return
	}
	logger = logging.NewLogger(level, logOutput)
}

// traceObserver logs every sample at trace level.
type traceObserver struct{}

func (traceObserver) OnStep(x dynamo.State, t float64) {
	logger.Log(context.Background(), logging.LevelTrace, "sample", "t", t, "S", x[0], "I", x[1], "R", x[2])
}

func simulate(ctx context.Context, cfg *config.Config) (*experiment.Outcome, error) {
	exp := experiment.New(experiment.Config{
		Beta:       cfg.Beta,
		Gamma:      cfg.Gamma,
		Initial:    cfg.InitialState(),
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
	})
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	exp.GetSimulator().AddObserver(traceObserver{})

	logger.Info("simulation started",
		"beta", cfg.Beta, "gamma", cfg.Gamma,
		"dt", cfg.Dt, "duration", cfg.Duration,
		"integrator", cfg.Integrator)
	start := time.Now()

	out, err := exp.Run(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("simulation completed",
		"samples", len(out.Trajectory),
		"steps", out.Result.StepsTaken,
		"elapsed", time.Since(start))
	for name, val := range out.Result.Metrics {
		logger.Debug("metric", "name", name, "value", val)
	}

	if frac, ok := out.Result.Metrics["non_negative"]; ok && frac < 1 {
		logger.Warn("negative compartment values; reduce dt", "non_negative_fraction", frac)
	}
	if out.Result.Drift > driftTolerance {
		logger.Warn("population not conserved", "relative_drift", out.Result.Drift)
	}
	return out, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	applyLogLevel(cmd, cfg.LogLevel)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Params:     out.Model.Params(),
		Initial:    cfg.InitialState(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Metrics:    out.Result.Metrics,
	}, out.Trajectory)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", runID, "dir", dataDir)

	if dumpCSV {
		return storage.WriteCSV(os.Stdout, out.Trajectory)
	}

	fmt.Println(viz.RenderSummary("run "+runID, analysis.Summarize(out.Model, out.Trajectory)))
	if showPlot {
		opts := viz.DefaultPlotOptions()
		opts.Caption = fmt.Sprintf("SIR  beta=%g gamma=%g", cfg.Beta, cfg.Gamma)
		fmt.Println(viz.PlotTrajectory(out.Trajectory, opts))
	}
	return nil
}

func promptSimulation(cmd *cobra.Command, args []string) error {
	def := config.DefaultConfig()
	vals, err := tui.Collect(tui.WithDefaults(tui.Values{
		Beta:    def.Beta,
		Gamma:   def.Gamma,
		Initial: def.InitialState(),
	}))
	if errors.Is(err, tui.ErrAborted) {
		logger.Info("input aborted")
		return nil
	}
	if err != nil {
		return err
	}

	cfg := def
	cfg.Beta = vals.Beta
	cfg.Gamma = vals.Gamma
	cfg.Initial = config.InitialConfig{S: vals.Initial.S, I: vals.Initial.I, R: vals.Initial.R}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Println(viz.RenderSummary("SIR simulation", analysis.Summarize(out.Model, out.Trajectory)))
	opts := viz.DefaultPlotOptions()
	opts.Caption = "SIR model"
	fmt.Println(viz.PlotTrajectory(out.Trajectory, opts))
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	applyLogLevel(cmd, cfg.LogLevel)

	header := []string{"INTEG", "FINAL S", "FINAL I", "FINAL R", "DRIFT", "PEAK I", "PEAK T"}
	var rows [][]string

	for _, name := range experiment.NewRegistry().ListIntegrators() {
		c := *cfg
		c.Integrator = name
		out, err := simulate(cmd.Context(), &c)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		sum := analysis.Summarize(out.Model, out.Trajectory)
		rows = append(rows, []string{
			name,
			strconv.FormatFloat(sum.Final.S, 'f', 4, 64),
			strconv.FormatFloat(sum.Final.I, 'f', 4, 64),
			strconv.FormatFloat(sum.Final.R, 'f', 4, 64),
			strconv.FormatFloat(out.Result.Drift, 'e', 2, 64),
			strconv.FormatFloat(sum.PeakInfected, 'f', 4, 64),
			strconv.FormatFloat(sum.PeakTime, 'f', 2, 64),
		})
	}

	fmt.Printf("beta=%g gamma=%g dt=%g time=%g\n\n", cfg.Beta, cfg.Gamma, cfg.Dt, cfg.Duration)
	fmt.Print(viz.RenderTable(header, rows))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	header := []string{"NAME", "BETA", "GAMMA", "R0", "S/I/R", "DT", "TIME"}
	var rows [][]string
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		rows = append(rows, []string{
			name,
			strconv.FormatFloat(p.Beta, 'g', 4, 64),
			strconv.FormatFloat(p.Gamma, 'g', 4, 64),
			strconv.FormatFloat(analysis.Reproduction(p.Beta, p.Gamma), 'f', 2, 64),
			fmt.Sprintf("%g/%g/%g", p.Initial.S, p.Initial.I, p.Initial.R),
			strconv.FormatFloat(p.Dt, 'g', -1, 64),
			strconv.FormatFloat(p.Duration, 'g', -1, 64),
		})
	}
	fmt.Print(viz.RenderTable(header, rows))
	return nil
}
