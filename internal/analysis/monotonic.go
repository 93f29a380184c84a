package analysis

// MaxBackwardStep returns the largest decrease between successive samples,
// or 0 for a non-decreasing series.
func MaxBackwardStep(series []float64) float64 {
	worst := 0.0
	for i := 1; i < len(series); i++ {
		if d := series[i-1] - series[i]; d > worst {
			worst = d
		}
	}
	return worst
}

// Monotonic reports whether series never decreases by more than eps.
func Monotonic(series []float64, eps float64) bool {
	return MaxBackwardStep(series) <= eps
}
