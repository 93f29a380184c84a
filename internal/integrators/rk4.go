package integrators

import "github.com/san-kum/hexcpg/internal/dynamo"

// RK4 is the classical fourth order Runge-Kutta scheme. Stage buffers are
// reused between steps, so an RK4 value must not be shared by engines.
type RK4 struct {
	k   [4]dynamo.State
	mid dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) resize(n int) {
	if len(r.mid) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.mid = make(dynamo.State, n)
}

// offset writes x + h*k into r.mid.
func (r *RK4) offset(x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		r.mid[i] = x[i] + h*k[i]
	}
	return r.mid
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.resize(len(x))
	half := dt / 2

	copy(r.k[0], dyn.Derive(x, t))
	copy(r.k[1], dyn.Derive(r.offset(x, r.k[0], half), t+half))
	copy(r.k[2], dyn.Derive(r.offset(x, r.k[1], half), t+half))
	copy(r.k[3], dyn.Derive(r.offset(x, r.k[2], dt), t+dt))

	next := make(dynamo.State, len(x))
	w := dt / 6
	for i := range next {
		next[i] = x[i] + w*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}
