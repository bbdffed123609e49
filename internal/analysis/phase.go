package analysis

import (
	"strings"

	"github.com/san-kum/episim/internal/epidemic"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds a trajectory projected onto two compartments.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// PhasePortrait projects traj onto the S–I plane.
func PhasePortrait(traj epidemic.Trajectory) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XLabel: "S",
		YLabel: "I",
		Points: make([]Point, 0, len(traj)),
	}
	for _, p := range traj {
		portrait.Points = append(portrait.Points, Point{X: p.State.S, Y: p.State.I})
	}
	return portrait
}

// PhasePortraitToASCII rasterises the portrait. Early samples are drawn as
// '.', middle ones as 'o' and late ones as '●'.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	n := len(portrait.Points)
	for i, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < n/3:
			canvas[row][col] = '.'
		case i < 2*n/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '●'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
