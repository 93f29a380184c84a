package analysis

import (
	"math"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/gait"
)

// CrossingTimes returns the interpolated times at which series rises through
// level + 2πk for successive k.
func CrossingTimes(series, times []float64, level float64) []float64 {
	if len(series) < 2 || len(times) != len(series) {
		return nil
	}

	target := level + dynamo.TwoPi*math.Ceil((series[0]-level)/dynamo.TwoPi)
	if target == series[0] {
		target += dynamo.TwoPi
	}

	var out []float64
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		for cur >= target && prev < target {
			frac := (target - prev) / (cur - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
			target += dynamo.TwoPi
		}
	}
	return out
}

// PhaseLag returns the fraction of a cycle, in [0, 1), by which other trails
// ref. Both series are expected to advance one turn per cycle.
func PhaseLag(ref, other, times []float64) (float64, error) {
	rc := CrossingTimes(ref, times, 0)
	oc := CrossingTimes(other, times, 0)
	if len(rc) < 2 || len(oc) < 1 {
		return 0, ErrNoCrossings
	}
	period := (rc[len(rc)-1] - rc[0]) / float64(len(rc)-1)
	if period <= 0 {
		return 0, ErrNoCrossings
	}

	var sumSin, sumCos float64
	n := 0
	j := 0
	for _, tr := range rc {
		for j < len(oc) && oc[j] < tr {
			j++
		}
		if j == len(oc) {
			break
		}
		theta := dynamo.TwoPi * (oc[j] - tr) / period
		sin, cos := math.Sincos(theta)
		sumSin += sin
		sumCos += cos
		n++
	}
	if n == 0 {
		return 0, ErrNoCrossings
	}

	lag, _ := dynamo.FloorMod(math.Atan2(sumSin, sumCos), dynamo.TwoPi)
	return lag / dynamo.TwoPi, nil
}

// TripodError is the mean circular distance, in cycles, between each leg's
// lag behind leg 0 and the alternating tripod: even legs in phase with leg
// 0, odd legs half a cycle behind. Legs in skip are left out.
func TripodError(angles []gait.Angles, times []float64, skip ...int) (float64, error) {
	ref := series(angles, 0)
	total := 0.0
	n := 0
	for leg := 1; leg < dynamo.NumLegs; leg++ {
		if contains(skip, leg) {
			continue
		}
		lag, err := PhaseLag(ref, series(angles, leg), times)
		if err != nil {
			return 0, err
		}
		want := 0.0
		if leg%2 == 1 {
			want = 0.5
		}
		d := math.Abs(lag - want)
		total += math.Min(d, 1-d)
		n++
	}
	if n == 0 {
		return 0, ErrNoCrossings
	}
	return total / float64(n), nil
}

func series(angles []gait.Angles, leg int) []float64 {
	out := make([]float64, len(angles))
	for i, a := range angles {
		out[i] = a[leg]
	}
	return out
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
