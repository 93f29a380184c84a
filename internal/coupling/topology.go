// Package coupling holds the inter-leg coupling structure of a gait: a 6x6
// matrix of phase biases with a parallel matrix of weights.
//
// Biases follow the convention bias[i][j] = -bias[j][i] for every defined
// pair. Pairs without a direct coupling read back as undefined.
package coupling

import (
	"fmt"
	"math"

	"github.com/san-kum/hexcpg/internal/dynamo"
)

const n = dynamo.NumLegs

// Undefined is the bias stored for pairs without a direct coupling.
var Undefined = math.Inf(1)

// antisymmetryTolerance bounds |bias[i][j] + bias[j][i]| in Validate.
const antisymmetryTolerance = 1e-12

// Topology is derived once per configuration and owned by one engine.
type Topology struct {
	bias   [n][n]float64
	weight [n][n]float64
}

// Empty returns a topology where no pair is coupled.
func Empty() *Topology {
	t := &Topology{}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			t.bias[i][j] = Undefined
		}
	}
	return t
}

// Uniform couples every unordered pair with zero bias and weight w.
func Uniform(w float64) *Topology {
	t := Empty()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			t.Set(i, j, 0, w)
		}
	}
	return t
}

// AlternatingTripod couples every pair with weight w; legs of equal parity
// are biased 0 and legs of opposite parity ±phi. phi = π gives the classic
// tripod where {0,2,4} and {1,3,5} move in antiphase.
func AlternatingTripod(phi, w float64) *Topology {
	t := Empty()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case i%2 == j%2:
				t.Set(i, j, 0, w)
			case i%2 == 0:
				t.Set(i, j, phi, w)
			default:
				t.Set(i, j, -phi, w)
			}
		}
	}
	return t
}

// Anchors are the directly parameterized biases of the sparse topology.
// Names use 1-based leg numbers: Phi14 couples legs 1 and 4 (indices 0 and 3).
type Anchors struct {
	Phi14 float64
	Phi12 float64
	Phi13 float64
	Phi45 float64
	Phi46 float64
}

// Spanning builds the sparse topology where leg 1 anchors legs 2, 3 and 4,
// leg 4 anchors legs 5 and 6, and the side pairs (2,5) and (3,6) get the
// biases that close their loops:
//
//	bias(5,2) = bias(4,5) - bias(1,4) - bias(1,2)
//	bias(6,3) = bias(4,6) - bias(1,4) - bias(1,3)
func Spanning(a Anchors, w float64) *Topology {
	t := Empty()
	t.Set(3, 0, a.Phi14, w)
	t.Set(1, 0, -a.Phi12, w)
	t.Set(2, 0, -a.Phi13, w)
	t.Set(4, 3, a.Phi45, w)
	t.Set(5, 3, a.Phi46, w)

	phi52 := a.Phi45 - a.Phi14 - a.Phi12
	phi63 := a.Phi46 - a.Phi14 - a.Phi13
	t.Set(1, 4, phi52, w)
	t.Set(2, 5, phi63, w)
	return t
}

// Set defines the pair (i, j) with bias b and weight w, writing the mirrored
// entry so antisymmetry holds by construction.
func (t *Topology) Set(i, j int, b, w float64) {
	if i == j {
		return
	}
	t.bias[i][j] = b
	t.bias[j][i] = -b
	t.weight[i][j] = w
	t.weight[j][i] = w
}

// Clear removes the coupling between i and j.
func (t *Topology) Clear(i, j int) {
	t.bias[i][j] = Undefined
	t.bias[j][i] = Undefined
	t.weight[i][j] = 0
	t.weight[j][i] = 0
}

// Defined reports whether legs i and j are directly coupled.
func (t *Topology) Defined(i, j int) bool {
	return i != j && t.bias[i][j] != Undefined
}

// Bias returns the phase bias from leg i to leg j and whether it is defined.
func (t *Topology) Bias(i, j int) (float64, bool) {
	if !t.Defined(i, j) {
		return 0, false
	}
	return t.bias[i][j], true
}

// Weight is zero for undefined pairs.
func (t *Topology) Weight(i, j int) float64 {
	if !t.Defined(i, j) {
		return 0
	}
	return t.weight[i][j]
}

// Edges counts the defined unordered pairs.
func (t *Topology) Edges() int {
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if t.Defined(i, j) {
				count++
			}
		}
	}
	return count
}

// Validate checks that definitions are mirrored, biases are antisymmetric and
// finite, and weights are non-negative.
func (t *Topology) Validate() error {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dij, dji := t.Defined(i, j), t.Defined(j, i)
			if dij != dji {
				return fmt.Errorf("coupling: pair (%d,%d) defined in one direction only", i, j)
			}
			if !dij {
				continue
			}
			bij, bji := t.bias[i][j], t.bias[j][i]
			if math.IsNaN(bij) || math.IsInf(bij, 0) {
				return fmt.Errorf("coupling: bias (%d,%d) is not finite", i, j)
			}
			if math.Abs(bij+bji) > antisymmetryTolerance {
				return fmt.Errorf("coupling: bias (%d,%d)=%g is not antisymmetric with (%d,%d)=%g", i, j, bij, j, i, bji)
			}
			if t.weight[i][j] < 0 || t.weight[i][j] != t.weight[j][i] {
				return fmt.Errorf("coupling: weight (%d,%d) must be symmetric and non-negative", i, j)
			}
		}
	}
	return nil
}

// Clone returns an independent copy.
func (t *Topology) Clone() *Topology {
	c := *t
	return &c
}

// BiasMatrix returns the biases with undefined entries as NaN, for display.
func (t *Topology) BiasMatrix() [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if b, ok := t.Bias(i, j); ok {
				m[i][j] = b
			} else {
				m[i][j] = math.NaN()
			}
		}
	}
	return m
}
