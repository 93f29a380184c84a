package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/hexcpg/internal/analysis"
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/experiment"
)

// LegColors are the stroke colors of legs 0 to 5.
var LegColors = [dynamo.NumLegs]string{
	"#ff5555", "#f1fa8c", "#50fa7b", "#8be9fd", "#6272a4", "#ff79c6",
}

type frame struct {
	minX, maxX, minY, maxY float64
	width, height         int
}

func (f frame) x(v float64) float64 {
	return (v - f.minX) / (f.maxX - f.minX) * float64(f.width)
}

func (f frame) y(v float64) float64 {
	return float64(f.height) - (v-f.minY)/(f.maxY-f.minY)*float64(f.height)
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// PortraitSVG draws a phase portrait as a single path.
func PortraitSVG(portrait *analysis.PhasePortrait2D, width, height int, stroke string) string {
	if portrait == nil || len(portrait.Points) < 2 {
		return ""
	}

	minX, maxX, minY, maxY := portrait.Bounds()
	f := frame{minX, maxX, minY, maxY, width, height}

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	for i, p := range portrait.Points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, f.x(p.X), f.y(p.Y))
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

// TraceSVG plots the selected legs of a trace against time, each wrapped to
// (-pi, pi]. The path is broken wherever the wrapped angle jumps by more
// than pi so wraps do not draw vertical lines.
func TraceSVG(trace *experiment.Trace, legs []int, width, height int) string {
	if trace == nil || len(trace.Times) < 2 {
		return ""
	}
	if len(legs) == 0 {
		legs = []int{0, 1, 2, 3, 4, 5}
	}

	f := frame{
		minX: trace.Times[0], maxX: trace.Times[len(trace.Times)-1],
		minY: -math.Pi * 1.1, maxY: math.Pi * 1.1,
		width: width, height: height,
	}
	if f.maxX <= f.minX {
		f.maxX = f.minX + 1
	}

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333333"/>
`, f.y(0), width, f.y(0))

	for _, leg := range legs {
		if leg < 0 || leg >= dynamo.NumLegs {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.2" d="`, LegColors[leg])
		prev := math.NaN()
		for i, t := range trace.Times {
			a := dynamo.Wrap(trace.Angles[i][leg])
			cmd := "L"
			if i == 0 || math.Abs(a-prev) > math.Pi {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, f.x(t), f.y(a))
			prev = a
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
