package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/episim/internal/epidemic"
)

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
	// Only, when non-empty, restricts the chart to these compartments
	// ("S", "I", "R").
	Only []string
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 15}
}

var compartmentColors = map[string]asciigraph.AnsiColor{
	"S": asciigraph.Blue,
	"I": asciigraph.Red,
	"R": asciigraph.Green,
}

var compartmentNames = map[string]string{
	"S": "Susceptible",
	"I": "Infectious",
	"R": "Recovered",
}

// PlotTrajectory draws the compartments over time. asciigraph resamples the
// series to the requested width.
func PlotTrajectory(traj epidemic.Trajectory, opts PlotOptions) string {
	if len(traj) == 0 {
		return ""
	}

	s, i, r := traj.Series()
	all := map[string][]float64{"S": s, "I": i, "R": r}

	keys := opts.Only
	if len(keys) == 0 {
		keys = []string{"S", "I", "R"}
	}

	data := make([][]float64, 0, len(keys))
	colors := make([]asciigraph.AnsiColor, 0, len(keys))
	legends := make([]string, 0, len(keys))
	for _, k := range keys {
		series, ok := all[k]
		if !ok {
			continue
		}
		data = append(data, series)
		colors = append(colors, compartmentColors[k])
		legends = append(legends, compartmentNames[k])
	}
	if len(data) == 0 {
		return ""
	}

	caption := opts.Caption
	if caption == "" {
		last, _ := traj.Final()
		caption = fmt.Sprintf("SIR model, t = 0 … %g", last.Time)
	}

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Precision(1),
	}
	if opts.Width > 0 {
		options = append(options, asciigraph.Width(opts.Width))
	}

	return asciigraph.PlotMany(data, options...)
}
