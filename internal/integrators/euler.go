package integrators

import "github.com/san-kum/hexcpg/internal/dynamo"

// Euler is the explicit forward Euler scheme, the default for every
// oscillator network.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next := x.Clone()
	for i, d := range dyn.Derive(x, t) {
		next[i] += dt * d
	}
	return next
}
