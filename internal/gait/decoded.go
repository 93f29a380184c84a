package gait

import (
	"fmt"
	"math"

	"github.com/san-kum/hexcpg/internal/coupling"
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/oscillators"
)

// LegShape holds the per-leg quantities the shaper needs. DutyTime and
// Period share the unit of the network's samples: seconds for clock and
// Kuramoto, radians of land-couple output for Hopf.
type LegShape struct {
	DutyFactor  float64
	DutyTime    float64
	Period      float64
	Stance      float64 // stance sweep, radians
	Offset      float64 // added to the output, radians
	PhaseOffset float64 // initial phase, seconds
}

// Decoded is the physical view of a parameter vector.
type Decoded struct {
	Encoding  *Encoding
	Period    float64 // seconds
	Frequency float64 // Hz
	Legs      [dynamo.NumLegs]LegShape

	// Topology is nil for the clock variants.
	Topology       *coupling.Topology
	CouplingWeight float64

	// Hopf is only populated for the amplitude-phase variant.
	Hopf oscillators.HopfParams
}

func (d *Decoded) validate() error {
	if !(d.Period > 0) || math.IsInf(d.Period, 0) {
		return fmt.Errorf("period %v: %w", d.Period, dynamo.ErrDegenerateConfiguration)
	}
	for i, leg := range d.Legs {
		if !(leg.DutyTime > 0) {
			return fmt.Errorf("leg %d duty time %v: %w", i, leg.DutyTime, dynamo.ErrDegenerateConfiguration)
		}
		if !(leg.DutyTime < leg.Period) {
			return fmt.Errorf("leg %d duty time %v leaves no swing in period %v: %w", i, leg.DutyTime, leg.Period, dynamo.ErrDegenerateConfiguration)
		}
	}
	if d.Topology != nil {
		if err := d.Topology.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy that shares nothing mutable with d.
func (d *Decoded) Clone() *Decoded {
	c := *d
	if d.Topology != nil {
		c.Topology = d.Topology.Clone()
	}
	return &c
}

// Network builds a fresh oscillator network for the decoded gait, reset to
// its initial state.
func (d *Decoded) Network() oscillators.Network {
	switch d.Encoding.Variant {
	case VariantKuramoto:
		return oscillators.NewKuramoto(d.Frequency, d.Topology.Clone())
	case VariantHopf:
		return oscillators.NewHopf(d.Hopf, d.Topology.Clone())
	default:
		var offsets [dynamo.NumLegs]float64
		for i, leg := range d.Legs {
			offsets[i] = leg.PhaseOffset
		}
		return oscillators.NewClock(d.Period, offsets)
	}
}
