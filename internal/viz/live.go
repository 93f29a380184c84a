package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/gait"
)

const (
	canvasWidth     = 40
	canvasHeight    = 12
	historyCapacity = 240
	tuneStep        = 0.05
	maxSpeed        = 16
)

var legColors = []asciigraph.AnsiColor{
	asciigraph.Red, asciigraph.Yellow, asciigraph.Green,
	asciigraph.Cyan, asciigraph.Blue, asciigraph.Magenta,
}

type TickMsg time.Time

// Model steps a configured engine once per tick and renders it.
type Model struct {
	eng     *gait.Engine
	decoded *gait.Decoded
	title   string

	dt    float64
	speed int
	t     float64

	angles  gait.Angles
	history [dynamo.NumLegs][]float64

	params   []float64
	selected int

	running  bool
	showHelp bool
	err      error
	canvas   *Canvas
}

// NewModel wraps a configured engine and restarts it from t=0.
func NewModel(eng *gait.Engine, dt float64, title string) Model {
	m := Model{
		eng:     eng,
		title:   title,
		dt:      dt,
		speed:   1,
		params:  eng.Parameters(),
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	m.retune(m.params)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = nil
			m.retune(m.params)
		case "tab":
			if len(m.params) > 0 {
				m.selected = (m.selected + 1) % len(m.params)
			}
		case "up", "k":
			m.nudge(tuneStep)
		case "down", "j":
			m.nudge(-tuneStep)
		case "[":
			m.speed = max(1, m.speed/2)
		case "]":
			m.speed = min(maxSpeed, m.speed*2)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the engine by speed fixed steps. A failed step pauses the
// view and keeps the last good angles on screen.
func (m *Model) step() {
	for i := 0; i < m.speed; i++ {
		next := m.t + m.dt
		angles, err := m.eng.Step(next)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.t = next
		m.record(angles)
	}
}

func (m *Model) record(angles gait.Angles) {
	m.angles = angles
	for leg, a := range angles {
		h := append(m.history[leg], dynamo.Wrap(a))
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[leg] = h
	}
}

func (m *Model) nudge(delta float64) {
	if len(m.params) == 0 {
		return
	}
	p := append([]float64(nil), m.params...)
	p[m.selected] = clamp01(p[m.selected] + delta)
	m.retune(p)
}

// retune reconfigures the engine. On failure the running gait is untouched.
func (m *Model) retune(p []float64) {
	if err := m.eng.Configure(p); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.params = m.eng.Parameters()
	m.decoded, _ = m.eng.Decoded()
	m.restart()
}

func (m *Model) restart() {
	m.t = 0
	for leg := range m.history {
		m.history[leg] = m.history[leg][:0]
	}
	if angles, err := m.eng.Step(0); err == nil {
		m.record(angles)
	} else {
		m.err = err
	}
}

// Time is the simulated time of the last successful step.
func (m Model) Time() float64 { return m.t }

func (m Model) Angles() gait.Angles { return m.angles }

func (m Model) Err() error { return m.err }

// draw renders the legs as spokes on their hip wheels, left side legs 0-2
// front to back and right side legs 3-5.
func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	r := h / 8
	left, right := w/4, 3*w/4

	m.canvas.Line(left+r+2, h/8, right-r-2, h/8)
	m.canvas.Line(left+r+2, 7*h/8, right-r-2, 7*h/8)
	m.canvas.Line(left+r+2, h/8, left+r+2, 7*h/8)
	m.canvas.Line(right-r-2, h/8, right-r-2, 7*h/8)

	for leg, a := range m.angles {
		cx := left
		if leg >= dynamo.NumLegs/2 {
			cx = right
		}
		cy := h/6 + (leg%3)*h/3
		m.canvas.Circle(cx, cy, r)
		sin, cos := math.Sincos(a)
		m.canvas.Line(cx, cy, cx+int(math.Round(float64(r)*sin)), cy+int(math.Round(float64(r)*cos)))
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("ERROR") + "\n" + errorStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render(fmt.Sprintf("RUNNING x%d", m.speed)) + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.history[0]) > 1 {
		chart := asciigraph.PlotMany(m.history[:],
			asciigraph.Height(6),
			asciigraph.Width(36),
			asciigraph.SeriesColors(legColors...),
			asciigraph.Caption("wrapped leg angles"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	if m.decoded != nil {
		s.WriteString(labelStyle.Render("Frequency") + valueStyle.Render(fmt.Sprintf("%.2f Hz", m.decoded.Frequency)) + "\n")
		if snap, ok := m.eng.Snapshot(); ok {
			for leg, sample := range snap.Samples {
				shape := m.decoded.Legs[leg]
				bar := CycleBar(sample.Cycle/sample.Period, shape.DutyTime/shape.Period, 20)
				s.WriteString(labelStyle.Render(fmt.Sprintf("Leg %d", leg)) + bar + "\n")
			}
		}
	}

	s.WriteString("\nPARAMETERS\n")
	for i, v := range m.params {
		line := fmt.Sprintf("p%-3d %s %.2f", i, ParamBar(v), v)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.UnsetWidth().Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Restart Q:Quit\nTab:Select ↑↓:Tune [ ]:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause or resume
  R        restart from t=0
  Tab      select next parameter
  Up/K     raise parameter by 0.05
  Down/J   lower parameter by 0.05
  [ / ]    halve or double steps per frame
  ?        toggle this help
  Q        quit`
