package analysis

import (
	"math"

	"github.com/san-kum/hexcpg/internal/dynamo"
)

// LockingExponent estimates how fast a phase network pulls a perturbed leg
// back into its pattern, in 1/s. Two copies of the phase vector are
// integrated from the network's current state, the second with leg 1
// shifted by perturbation. Only phases relative to leg 0 are compared, so a
// common drift does not count as separation. The separation is renormalized
// every step and the exponent is the mean log growth rate. Negative values
// mean the pattern is stable; zero means it is neutral.
func LockingExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) < 2 || perturbation <= 0 || dt <= 0 {
		return 0
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[1] += perturbation

	sumLog := 0.0
	t := 0.0
	steps := 0
	for t < duration {
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)
		t += dt
		if !x.IsValid() || !xp.IsValid() {
			return math.NaN()
		}

		sep := relativeSeparation(x, xp)
		if sep == 0 {
			return math.Inf(-1)
		}
		sumLog += math.Log(sep / perturbation)
		steps++

		scale := perturbation / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if steps == 0 {
		return 0
	}
	return sumLog / (float64(steps) * dt)
}

// relativeSeparation is the distance between the two phase vectors once
// each is taken relative to its own leg 0.
func relativeSeparation(x, xp dynamo.State) float64 {
	d := make(dynamo.State, len(x)-1)
	for i := range d {
		d[i] = (xp[i+1] - xp[0]) - (x[i+1] - x[0])
	}
	return d.Norm()
}
