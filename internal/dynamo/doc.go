// Package dynamo provides the numerical primitives shared by the gait
// oscillators.
//
// The package defines:
//
//   - [State]: flat vector holding every leg's oscillator state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: one explicit step of a numerical scheme
//   - [Wrap] and [FloorMod]: angle reduction that is correct for negative inputs
//   - the error taxonomy returned by configuration and stepping
//
// # Example
//
//	net := oscillators.NewKuramoto(1.5, topo)
//	integ := integrators.NewEuler()
//	if err := net.Advance(integ, t, dt); err != nil {
//	    // errors.Is(err, dynamo.ErrNumericInstability)
//	}
//
// # Thread Safety
//
// Nothing in this package synchronizes. States and systems belong to a
// single owner that serializes access.
package dynamo
