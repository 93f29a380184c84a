// Package oscillators provides the rhythm generators that drive each leg.
//
// Each network implements [dynamo.System], so any [dynamo.Integrator] can
// advance it, and [Network], which the gait engine consumes:
//
//   - [Clock]: independent phase clocks, one per leg, no coupling
//   - [Kuramoto]: phase oscillators coupled through sin(φj - φi - bias)
//   - [Hopf]: amplitude-phase oscillators with swing/stance detection
//
// A network reports each leg as a [Sample]: the position inside the current
// cycle, the cycle length in the same units, and the completed revolutions.
// The gait shaper turns samples into joint angles without knowing which
// network produced them.
package oscillators
