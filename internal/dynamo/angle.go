package dynamo

import "math"

const TwoPi = 2 * math.Pi

// Wrap reduces x into (-π, π]. The reduction is floor based so negative
// inputs land in the same range as positive ones, unlike math.Mod.
func Wrap(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.NaN()
	}
	// ceil((x-π)/2π) counts the turns to remove so the result is > -π and <= π.
	y := x - TwoPi*math.Ceil((x-math.Pi)/TwoPi)
	if y <= -math.Pi {
		y += TwoPi
	}
	if y > math.Pi {
		y -= TwoPi
	}
	return y
}

// FloorMod returns x - m*floor(x/m), which lies in [0, m) for m > 0, and the
// number of whole periods removed.
func FloorMod(x, m float64) (rem float64, turns float64) {
	turns = math.Floor(x / m)
	rem = x - turns*m
	if rem >= m {
		rem -= m
		turns++
	}
	if rem < 0 {
		rem += m
		turns--
	}
	return rem, turns
}
