package analysis

import (
	"strings"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/oscillators"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is the trajectory of two state components.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// GeneratePhasePortrait advances net and records two components of its
// state after every step. The network is modified. Recording stops early if
// a step fails.
func GeneratePhasePortrait(
	net oscillators.Network,
	integ dynamo.Integrator,
	xIdx, yIdx int,
	dt, duration float64,
) *PhasePortrait2D {
	dim := net.StateDim()
	if xIdx < 0 || yIdx < 0 || xIdx >= dim || yIdx >= dim || dt <= 0 {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, int(duration/dt)+1),
	}

	for t := 0.0; t < duration; t += dt {
		if err := net.Advance(integ, t, dt); err != nil {
			break
		}
		s := net.State()
		portrait.Points = append(portrait.Points, Point{X: s[xIdx], Y: s[yIdx]})
	}
	return portrait
}

// Bounds returns the extent of the portrait padded by 10% on each side.
func (p *PhasePortrait2D) Bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points[1:] {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	padX, padY := (maxX-minX)*0.1, (maxY-minY)*0.1
	if padX == 0 {
		padX = 0.5
	}
	if padY == 0 {
		padY = 0.5
	}
	return minX - padX, maxX + padX, minY - padY, maxY + padY
}

// PhasePortraitToASCII draws the portrait as dots on a width×height grid,
// with axes wherever zero is in view.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := portrait.Bounds()
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range portrait.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
