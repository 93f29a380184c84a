package oscillators

import (
	"math"

	"github.com/san-kum/hexcpg/internal/coupling"
	"github.com/san-kum/hexcpg/internal/dynamo"
)

// Kuramoto couples per-leg phases (radians):
//
//	dφi/dt = 2πf + Σ_{j≠i} w[i][j]·sin(φj - φi - bias[i][j])
//
// Undefined pairs contribute nothing. Phases are unbounded so whole turns can
// be counted; use PhaseLag for wrapped relative phases.
type Kuramoto struct {
	freq  float64
	topo  *coupling.Topology
	init  [dynamo.NumLegs]float64
	phase dynamo.State
}

// NewKuramoto starts leg j at bias(0, j) so the network begins on the
// pattern its topology encodes. With antiphase targets a synchronous start
// is an equilibrium the network would never leave.
func NewKuramoto(freq float64, topo *coupling.Topology) *Kuramoto {
	k := &Kuramoto{freq: freq, topo: topo}
	for j := 1; j < dynamo.NumLegs; j++ {
		if b, ok := topo.Bias(0, j); ok {
			k.init[j] = b
		}
	}
	k.Reset()
	return k
}

func (k *Kuramoto) StateDim() int { return dynamo.NumLegs }

func (k *Kuramoto) Derive(x dynamo.State, _ float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	omega := 2 * math.Pi * k.freq
	for i := range x {
		dx[i] = omega
		for j := range x {
			b, ok := k.topo.Bias(i, j)
			if !ok {
				continue
			}
			dx[i] += k.topo.Weight(i, j) * math.Sin(x[j]-x[i]-b)
		}
	}
	return dx
}

func (k *Kuramoto) Reset() {
	k.phase = make(dynamo.State, dynamo.NumLegs)
	for i := range k.phase {
		k.phase[i] = k.init[i]
	}
}

func (k *Kuramoto) Advance(integ dynamo.Integrator, t, dt float64) error {
	next, err := advance(k, integ, k.phase, t, dt)
	if err != nil {
		return err
	}
	k.phase = next
	return nil
}

// Sample converts the phase into seconds within a 1/f period.
func (k *Kuramoto) Sample(leg int) Sample {
	rem, turns := dynamo.FloorMod(k.phase[leg], 2*math.Pi)
	period := 1 / k.freq
	return Sample{
		Cycle:       rem / (2 * math.Pi) * period,
		Period:      period,
		Revolutions: turns,
	}
}

func (k *Kuramoto) Clone() Network {
	c := *k
	c.phase = k.phase.Clone()
	return &c
}

func (k *Kuramoto) State() dynamo.State { return k.phase.Clone() }

// PhaseLag returns φj - φi wrapped into (-π, π].
func (k *Kuramoto) PhaseLag(i, j int) float64 {
	return dynamo.Wrap(k.phase[j] - k.phase[i])
}

func (k *Kuramoto) MaxRate() float64 {
	worst := 0.0
	for i := 0; i < dynamo.NumLegs; i++ {
		sum := 0.0
		for j := 0; j < dynamo.NumLegs; j++ {
			sum += k.topo.Weight(i, j)
		}
		worst = math.Max(worst, sum)
	}
	return k.freq + worst/(2*math.Pi)
}
