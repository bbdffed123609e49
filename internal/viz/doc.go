// Package viz renders simulated trajectories for the terminal.
//
// It is a pure presentation layer: every function takes finished data and
// returns a string, so it can be used from the CLI, from tests, or from the
// interactive prompt alike.
//
//   - [PlotTrajectory]: S, I and R against time as a colored ASCII chart
//   - [RenderSummary]: key outbreak numbers as a styled panel
//   - [RenderTable]: a plain fixed-width table for lists of runs or sweeps
package viz
