package analysis

import (
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/experiment"
)

// Metric names used by Summarize.
const (
	MetricRate        = "rate"
	MetricFrequency   = "frequency"
	MetricBackward    = "backward"
	MetricTripodError = "tripod_error"
)

// Summarize computes the standard metrics of a trace. Masked legs are left
// out, and metrics that cannot be computed are omitted.
func Summarize(trace *experiment.Trace) map[string]float64 {
	out := make(map[string]float64)
	if len(trace.Angles) < 2 {
		return out
	}

	rate, backward := 0.0, 0.0
	active := 0
	first := -1
	for leg := 0; leg < dynamo.NumLegs; leg++ {
		if contains(trace.Mask, leg) {
			continue
		}
		s := trace.Leg(leg)
		rate += MeanRate(s, trace.Times)
		backward = max(backward, MaxBackwardStep(s))
		active++
		if first < 0 {
			first = leg
		}
	}
	if active == 0 {
		return out
	}
	out[MetricRate] = rate / float64(active)
	out[MetricBackward] = backward

	if f, err := DominantFrequency(trace.Leg(first), trace.Dt); err == nil {
		out[MetricFrequency] = f
	}
	if !contains(trace.Mask, 0) {
		if e, err := TripodError(trace.Angles, trace.Times, trace.Mask...); err == nil {
			out[MetricTripodError] = e
		}
	}
	return out
}
