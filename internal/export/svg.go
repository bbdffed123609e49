package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/episim/internal/epidemic"
)

var seriesStyle = []struct {
	name   string
	stroke string
}{
	{"Susceptible", "#4a90d9"},
	{"Infectious", "#d94a4a"},
	{"Recovered", "#4ad97a"},
}

// TrajectoryToSVG draws S, I and R against time as three polylines sharing
// one y-axis scaled to the largest value.
func TrajectoryToSVG(traj epidemic.Trajectory, width, height int) string {
	if len(traj) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	s, i, r := traj.Series()
	series := [][]float64{s, i, r}

	minX, maxX := traj[0].Time, traj[len(traj)-1].Time
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ys := range series {
		for _, y := range ys {
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	for k, ys := range series {
		style := seriesStyle[k]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-series="%s" d="M`, style.stroke, style.name))
		for j, y := range ys {
			px := (traj[j].Time - minX) / rangeX * float64(width)
			py := float64(height) - (y-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString("\"/>\n")
	}

	for k, style := range seriesStyle {
		sb.WriteString(fmt.Sprintf(`<text x="10" y="%d" font-family="sans-serif" font-size="12" fill="%s">%s</text>
`, 20+16*k, style.stroke, style.name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
