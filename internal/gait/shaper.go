package gait

import (
	"math"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/oscillators"
)

// Shape maps a cycle position u in [0, leg.Period] onto the two-segment
// stance/swing law. Stance sweeps [-Stance/2, Stance/2] linearly over the
// duty time; swing covers the remaining 2π - Stance over the rest of the
// period, so one cycle advances the output by exactly one turn.
func Shape(u float64, leg LegShape) float64 {
	if u <= leg.DutyTime {
		return -leg.Stance/2 + leg.Stance/leg.DutyTime*u
	}
	swing := leg.Period - leg.DutyTime
	return leg.Stance/2 + (dynamo.TwoPi-leg.Stance)/swing*(u-leg.DutyTime)
}

// Angle is the full joint command for one leg: the shaped cycle position
// plus one turn per completed revolution plus the leg's offset.
func Angle(s oscillators.Sample, leg LegShape) float64 {
	return Shape(s.Cycle, leg) + s.Revolutions*dynamo.TwoPi + leg.Offset
}

// Unwrapper removes whole-turn jumps from a signal that should only move
// forward. A step is treated as a wrap artifact when it lands within limit
// of a full turn in either direction, where limit is the largest advance
// the network can make in one step. Corrections persist per leg.
type Unwrapper struct {
	prev       [dynamo.NumLegs]float64
	correction [dynamo.NumLegs]float64
	primed     [dynamo.NumLegs]bool
}

func (u *Unwrapper) Reset() {
	*u = Unwrapper{}
}

// Unwrap returns the corrected angle for leg. A limit of π or more means the
// step is too coarse to tell a wrap from real motion and nothing is repaired.
func (u *Unwrapper) Unwrap(leg int, angle, limit float64) float64 {
	out := angle + u.correction[leg]
	if !u.primed[leg] {
		u.primed[leg] = true
		u.prev[leg] = out
		return out
	}

	if limit >= 0 && limit < math.Pi {
		threshold := dynamo.TwoPi - limit
		if drop := u.prev[leg] - out; drop > threshold {
			k := math.Floor((drop + limit) / dynamo.TwoPi)
			u.correction[leg] += k * dynamo.TwoPi
			out += k * dynamo.TwoPi
		} else if rise := out - u.prev[leg]; rise > threshold {
			k := math.Floor((rise + limit) / dynamo.TwoPi)
			u.correction[leg] -= k * dynamo.TwoPi
			out -= k * dynamo.TwoPi
		}
	}

	u.prev[leg] = out
	return out
}

// Correction reports the accumulated whole-turn correction for leg.
func (u *Unwrapper) Correction(leg int) float64 {
	return u.correction[leg]
}
