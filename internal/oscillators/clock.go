package oscillators

import (
	"github.com/san-kum/hexcpg/internal/dynamo"
)

// Clock advances every leg's phase at one second per second. Phases are kept
// in seconds and grow without bound; Sample folds them into the period.
type Clock struct {
	period  float64
	offsets [dynamo.NumLegs]float64
	phase   dynamo.State
}

// NewClock expects period > 0; the decoder rejects anything else.
func NewClock(period float64, offsets [dynamo.NumLegs]float64) *Clock {
	c := &Clock{period: period, offsets: offsets}
	c.Reset()
	return c
}

func (c *Clock) StateDim() int { return dynamo.NumLegs }

func (c *Clock) Derive(x dynamo.State, _ float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	for i := range dx {
		dx[i] = 1
	}
	return dx
}

func (c *Clock) Reset() {
	c.phase = make(dynamo.State, dynamo.NumLegs)
	for i := range c.phase {
		c.phase[i] = c.offsets[i]
	}
}

func (c *Clock) Advance(integ dynamo.Integrator, t, dt float64) error {
	next, err := advance(c, integ, c.phase, t, dt)
	if err != nil {
		return err
	}
	c.phase = next
	return nil
}

func (c *Clock) Sample(leg int) Sample {
	u, turns := dynamo.FloorMod(c.phase[leg], c.period)
	return Sample{Cycle: u, Period: c.period, Revolutions: turns}
}

func (c *Clock) Clone() Network {
	cp := *c
	cp.phase = c.phase.Clone()
	return &cp
}

func (c *Clock) State() dynamo.State { return c.phase.Clone() }

func (c *Clock) MaxRate() float64 { return 1 / c.period }
