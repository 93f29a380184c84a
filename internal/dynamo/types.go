package dynamo

import "math"

// NumLegs is the number of legs every network drives.
const NumLegs = 6

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Name() string
	Step(dyn System, x State, t float64, dt float64) State
}
