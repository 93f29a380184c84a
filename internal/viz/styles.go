package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(48)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))

	stanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff"))
	swingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff00ff"))
)

// CycleBar shows how far a leg is through its cycle, split at the duty
// fraction: the stance part in one color, swing in another.
func CycleBar(fraction, duty float64, width int) string {
	fraction = clamp01(fraction)
	split := int(clamp01(duty) * float64(width))
	pos := int(fraction * float64(width))
	if pos >= width {
		pos = width - 1
	}

	var sb strings.Builder
	for i := 0; i < width; i++ {
		ch := "░"
		if i == pos {
			ch = "█"
		}
		if i < split {
			sb.WriteString(stanceStyle.Render(ch))
		} else {
			sb.WriteString(swingStyle.Render(ch))
		}
	}
	return sb.String()
}

// ParamBar renders a normalized parameter as a ten-slot gauge.
func ParamBar(v float64) string {
	filled := int(clamp01(v)*10 + 0.5)
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", 10-filled) + "]"
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
