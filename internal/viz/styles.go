package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/episim/internal/analysis"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(18)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffaa00"))
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, MetricLabel.Render(label), MetricValue.Render(value))
}

// RenderSummary formats the headline numbers of one run.
func RenderSummary(title string, sum analysis.Summary) string {
	rows := []string{
		Title.Render(title),
		"",
		row("R0", fmt.Sprintf("%.3f", sum.R0)),
		row("herd immunity", fmt.Sprintf("%.1f%%", 100*sum.HerdImmunity)),
		row("peak infectious", fmt.Sprintf("%.2f at t=%.2f", sum.PeakInfected, sum.PeakTime)),
		row("final S / I / R", fmt.Sprintf("%.2f / %.2f / %.2f", sum.Final.S, sum.Final.I, sum.Final.R)),
		row("attack rate", fmt.Sprintf("%.2f%%", 100*sum.AttackRate)),
		row("analytic", fmt.Sprintf("%.2f%%", 100*sum.AnalyticAttackRate)),
		row("samples", fmt.Sprintf("%d", sum.Samples)),
	}
	if sum.MinCompartment < 0 {
		rows = append(rows, "", Warning.Render(fmt.Sprintf("negative compartment reached (%.4g): step too large", sum.MinCompartment)))
	}
	return Panel.Render(strings.Join(rows, "\n"))
}

// RenderTable lays out rows under header with two spaces between columns.
func RenderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i := 0; i < len(r) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(r[i]))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(cell)
			if i < len(widths)-1 {
				sb.WriteString(strings.Repeat(" ", w-lipgloss.Width(cell)+2))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, r := range rows {
		writeRow(r)
	}
	return sb.String()
}
