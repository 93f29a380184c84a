package oscillators

import (
	"math"

	"github.com/san-kum/hexcpg/internal/coupling"
	"github.com/san-kum/hexcpg/internal/dynamo"
)

type HopfParams struct {
	Amplitude float64 // limit cycle radius A
	Freq      float64 // Hz
	K         float64 // amplitude convergence rate
	Sigma     float64 // coupling strength
	Stance    float64 // stance share of the cycle, in (0, 1)
}

// Hopf holds one (x, y) oscillator per leg, stored as [x0, y0, x1, y1, ...]:
//
//	dx/dt = k(A² - x² - y²)x - 2πf·y
//	dy/dt = k(A² - x² - y²)y + 2πf·x + Σ σ·w[i][j]·(xj·sin bias[i][j] + yj·cos bias[i][j])
//
// A leg enters swing when x reaches +A and returns to stance when x reaches
// -A; each return to stance completes one revolution. An orbit that settles
// just inside A never reaches the threshold, so the step on which y changes
// sign at the extreme of x counts as reaching it.
type Hopf struct {
	p     HopfParams
	topo  *coupling.Topology
	state dynamo.State
	swing [dynamo.NumLegs]bool
	turns [dynamo.NumLegs]int
}

// initialHopfState puts the two tripods on opposite sides of the cycle.
var initialHopfState = [dynamo.NumLegs][2]float64{
	{1, -1}, {1, -1}, {1, -1},
	{-1, 1}, {-1, 1}, {-1, 1},
}

func NewHopf(p HopfParams, topo *coupling.Topology) *Hopf {
	h := &Hopf{p: p, topo: topo}
	h.Reset()
	return h
}

func (h *Hopf) StateDim() int { return 2 * dynamo.NumLegs }

func (h *Hopf) Derive(s dynamo.State, _ float64) dynamo.State {
	ds := make(dynamo.State, len(s))
	omega := 2 * math.Pi * h.p.Freq
	a2 := h.p.Amplitude * h.p.Amplitude

	for i := 0; i < dynamo.NumLegs; i++ {
		x, y := s[2*i], s[2*i+1]
		growth := h.p.K * (a2 - x*x - y*y)

		du := growth*x - omega*y
		dv := growth*y + omega*x
		for j := 0; j < dynamo.NumLegs; j++ {
			b, ok := h.topo.Bias(i, j)
			if !ok {
				continue
			}
			sin, cos := math.Sincos(b)
			dv += h.p.Sigma * h.topo.Weight(i, j) * (s[2*j]*sin + s[2*j+1]*cos)
		}

		ds[2*i] = du
		ds[2*i+1] = dv
	}
	return ds
}

func (h *Hopf) Reset() {
	h.state = make(dynamo.State, 2*dynamo.NumLegs)
	for i, xy := range initialHopfState {
		h.state[2*i] = xy[0] * h.p.Amplitude
		h.state[2*i+1] = xy[1] * h.p.Amplitude
	}
	h.swing = [dynamo.NumLegs]bool{}
	h.turns = [dynamo.NumLegs]int{}
}

func (h *Hopf) Advance(integ dynamo.Integrator, t, dt float64) error {
	next, err := advance(h, integ, h.state, t, dt)
	if err != nil {
		return err
	}
	prev := h.state
	h.state = next

	for i := 0; i < dynamo.NumLegs; i++ {
		x, y, py := next[2*i], next[2*i+1], prev[2*i+1]
		switch {
		case !h.swing[i] && (x >= h.p.Amplitude || (x > 0 && py < 0 && y >= 0)):
			h.swing[i] = true
		case h.swing[i] && (x <= -h.p.Amplitude || (x < 0 && py > 0 && y <= 0)):
			h.swing[i] = false
			h.turns[i]++
		}
	}
	return nil
}

// LandCouple projects x onto the stance arc [0, 2sπ] or the swing arc
// [2sπ, 2π]. x/A is clamped to [-1, 1] so the overshoot of the discrete
// orbit past ±A cannot pull the angle backwards. The swing arc is scaled by
// (1-s)π rather than (1-sπ), which keeps the angle continuous at x = +A.
func (h *Hopf) LandCouple(leg int) float64 {
	c := h.state[2*leg] / h.p.Amplitude
	c = math.Max(-1, math.Min(1, c))
	s := h.p.Stance
	if h.swing[leg] {
		return 2*math.Pi - (1-s)*math.Pi*(1+c)
	}
	return s * math.Pi * (1 + c)
}

func (h *Hopf) Sample(leg int) Sample {
	return Sample{
		Cycle:       h.LandCouple(leg),
		Period:      2 * math.Pi,
		Revolutions: float64(h.turns[leg]),
	}
}

func (h *Hopf) Clone() Network {
	c := *h
	c.state = h.state.Clone()
	return &c
}

func (h *Hopf) State() dynamo.State { return h.state.Clone() }

// Swing reports whether the leg is currently in its swing phase.
func (h *Hopf) Swing(leg int) bool { return h.swing[leg] }

// Revolutions is the number of completed swing-to-stance transitions.
func (h *Hopf) Revolutions(leg int) int { return h.turns[leg] }

// MaxRate bounds the land-couple speed in turns per second: the steeper arc
// spans at most 2π·max(s, 1-s) over half an oscillator cycle, plus whatever
// the coupling can add.
func (h *Hopf) MaxRate() float64 {
	worst := 0.0
	for i := 0; i < dynamo.NumLegs; i++ {
		sum := 0.0
		for j := 0; j < dynamo.NumLegs; j++ {
			sum += h.topo.Weight(i, j)
		}
		worst = math.Max(worst, sum)
	}
	arc := math.Max(h.p.Stance, 1-h.p.Stance)
	return math.Pi*arc*h.p.Freq + h.p.Sigma*worst/(2*math.Pi)
}
