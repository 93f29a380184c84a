// Package analysis characterizes gait traces and oscillator networks.
//
//   - [DominantFrequency]: stepping frequency from the spectrum of a leg's angular velocity
//   - [MeanRate]: average turns per second of a leg's command
//   - [PhaseLag]: cycle fraction by which one leg trails another
//   - [TripodError]: distance of a trace from the alternating tripod pattern
//   - [MaxBackwardStep]: largest decrease between successive commands
//   - [LockingExponent]: convergence rate of relative phases in a phase network
//   - [GeneratePhasePortrait]: 2D state space trajectory of a network
//
// # Phase Locking
//
// A negative locking exponent means perturbations of the phase pattern die
// out:
//
//	lambda := analysis.LockingExponent(net, integ, dt, duration, 1e-6)
//	if lambda < 0 {
//	    // pattern is stable
//	}
package analysis
