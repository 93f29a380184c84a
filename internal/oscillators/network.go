package oscillators

import (
	"fmt"

	"github.com/san-kum/hexcpg/internal/dynamo"
)

// Sample is one leg's rhythm position. Cycle lies in [0, Period].
type Sample struct {
	Cycle       float64
	Period      float64
	Revolutions float64
}

type Network interface {
	dynamo.System

	// Reset restores the initial state of the current configuration.
	Reset()

	// Advance integrates one step of size dt starting at time t. A step that
	// would produce a non-finite state fails with ErrNumericInstability and
	// leaves the state untouched.
	Advance(integ dynamo.Integrator, t, dt float64) error

	Sample(leg int) Sample

	// State returns a copy of the raw integrator state.
	State() dynamo.State

	// MaxRate bounds how many cycles per second any leg's sample can advance.
	MaxRate() float64

	// Clone copies the mutable state. The topology is shared; it is never
	// modified after construction.
	Clone() Network
}

// advance runs one integrator step and validates the result before it is
// committed.
func advance(sys dynamo.System, integ dynamo.Integrator, x dynamo.State, t, dt float64) (dynamo.State, error) {
	next := integ.Step(sys, x, t, dt)
	if len(next) != len(x) {
		return nil, fmt.Errorf("oscillators: %s returned %d values for a %d-dimensional state", integ.Name(), len(next), len(x))
	}
	if !next.IsValid() {
		return nil, fmt.Errorf("oscillators: %s step at t=%.4f: %w", integ.Name(), t, dynamo.ErrNumericInstability)
	}
	return next, nil
}
