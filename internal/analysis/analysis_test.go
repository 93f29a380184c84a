package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/hexcpg/internal/config"
	"github.com/san-kum/hexcpg/internal/coupling"
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/experiment"
	"github.com/san-kum/hexcpg/internal/integrators"
	"github.com/san-kum/hexcpg/internal/oscillators"
)

func ramp(rate, dt float64, n int, shift float64) ([]float64, []float64) {
	s := make([]float64, n)
	times := make([]float64, n)
	for i := range s {
		times[i] = float64(i) * dt
		s[i] = 2 * math.Pi * rate * (times[i] - shift)
	}
	return s, times
}

func runPreset(t *testing.T, cfg *config.Config) *experiment.Trace {
	t.Helper()
	trace, err := experiment.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if trace.Err != nil {
		t.Fatalf("step failure: %v", trace.Err)
	}
	return trace
}

func TestMaxBackwardStep(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"rising", []float64{0, 1, 2, 2, 3}, 0},
		{"one dip", []float64{0, 1, 0.75, 2}, 0.25},
		{"worst dip wins", []float64{5, 4.5, 6, 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxBackwardStep(tt.series); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if !Monotonic([]float64{0, 1, 0.9999999}, 1e-6) {
		t.Error("expected a dip within tolerance to count as monotonic")
	}
}

func TestMeanRate(t *testing.T) {
	s, times := ramp(1.5, 0.01, 101, 0)
	if got := MeanRate(s, times); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("expected 1.5, got %v", got)
	}
	if got := MeanRate(s[:1], times[:1]); got != 0 {
		t.Errorf("expected 0 for a single sample, got %v", got)
	}
}

func TestDominantFrequency(t *testing.T) {
	trace := runPreset(t, config.DefaultConfig())

	f, err := DominantFrequency(trace.Leg(0), trace.Dt)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-1.5) > 0.05 {
		t.Errorf("expected about 1.5 Hz, got %v", f)
	}
}

func TestDominantFrequency_Errors(t *testing.T) {
	s, _ := ramp(1, 0.01, 500, 0)
	if _, err := DominantFrequency(s, 0.01); !errors.Is(err, ErrFlatSpectrum) {
		t.Errorf("expected ErrFlatSpectrum for a ramp, got %v", err)
	}
	if _, err := DominantFrequency(s[:4], 0.01); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}
}

func TestPowerSpectrum(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}
	ps := PowerSpectrum(data)
	if len(ps) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(ps))
	}
	for k, v := range ps {
		if k != 4 && v > ps[4] {
			t.Errorf("bin %d (%v) exceeds the signal bin (%v)", k, v, ps[4])
		}
	}
}

func TestCrossingTimes(t *testing.T) {
	s, times := ramp(1, 0.1, 31, 0)
	got := CrossingTimes(s, times, 0)
	want := []float64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("crossing %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPhaseLag(t *testing.T) {
	ref, times := ramp(1, 0.01, 501, 0)
	other, _ := ramp(1, 0.01, 501, 0.25)

	lag, err := PhaseLag(ref, other, times)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lag-0.25) > 1e-6 {
		t.Errorf("expected lag 0.25, got %v", lag)
	}

	if _, err := PhaseLag(ref[:50], other[:50], times[:50]); !errors.Is(err, ErrNoCrossings) {
		t.Errorf("expected ErrNoCrossings, got %v", err)
	}
}

func TestTripodError(t *testing.T) {
	tripod := runPreset(t, config.GetPreset("clock/v9", "tripod"))
	e, err := TripodError(tripod.Angles, tripod.Times)
	if err != nil {
		t.Fatal(err)
	}
	if e > 0.01 {
		t.Errorf("expected a tripod gait to match, got error %v", e)
	}

	pronk := runPreset(t, config.GetPreset("clock/v9", "pronk"))
	e, err = TripodError(pronk.Angles, pronk.Times)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(e-0.3) > 0.01 {
		t.Errorf("expected 0.3 for all legs in phase, got %v", e)
	}
}

func TestLockingExponent(t *testing.T) {
	integ := integrators.NewEuler()

	locked := oscillators.NewKuramoto(1, coupling.Uniform(1))
	lambda := LockingExponent(locked, integ, locked.State(), 0.001, 5, 1e-6)
	if math.Abs(lambda+6) > 0.1 {
		t.Errorf("expected about -6 for uniform unit coupling, got %v", lambda)
	}

	free := oscillators.NewKuramoto(1, coupling.Empty())
	lambda = LockingExponent(free, integ, free.State(), 0.001, 5, 1e-6)
	if math.Abs(lambda) > 1e-3 {
		t.Errorf("expected neutral stability without coupling, got %v", lambda)
	}
}

func TestRelativeSeparation(t *testing.T) {
	x := dynamo.State{0, 1, 2, 3, 4, 5}

	tests := []struct {
		name string
		xp   dynamo.State
		want float64
	}{
		{"identical", dynamo.State{0, 1, 2, 3, 4, 5}, 0},
		{"common drift", dynamo.State{0.7, 1.7, 2.7, 3.7, 4.7, 5.7}, 0},
		{"one leg shifted", dynamo.State{0, 1.1, 2, 3, 4, 5}, 0.1},
		{"reference leg shifted", dynamo.State{0.3, 1, 2, 3, 4, 5}, 0.3 * math.Sqrt(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeSeparation(x, tt.xp); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("relativeSeparation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneratePhasePortrait(t *testing.T) {
	net := oscillators.NewHopf(oscillators.HopfParams{Amplitude: 1, Freq: 1, K: 10, Stance: 0.5}, coupling.Empty())
	p := GeneratePhasePortrait(net, integrators.NewRK4(), 0, 1, 0.01, 5)
	if p == nil {
		t.Fatal("expected a portrait")
	}
	if len(p.Points) < 490 {
		t.Fatalf("expected about 500 points, got %d", len(p.Points))
	}
	last := p.Points[len(p.Points)-1]
	if r := math.Hypot(last.X, last.Y); math.Abs(r-1) > 0.01 {
		t.Errorf("expected the orbit on the unit circle, got radius %v", r)
	}

	art := PhasePortraitToASCII(p, 40, 20)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 lines, got %d", len(lines))
	}
	if !strings.ContainsRune(art, '•') {
		t.Error("expected plotted points")
	}

	if GeneratePhasePortrait(net, integrators.NewRK4(), 0, 12, 0.01, 1) != nil {
		t.Error("expected nil for an out of range index")
	}
	if PhasePortraitToASCII(nil, 40, 20) != "" {
		t.Error("expected empty output for nil portrait")
	}
}

func TestSummarize(t *testing.T) {
	trace := runPreset(t, config.DefaultConfig())
	m := Summarize(trace)

	if math.Abs(m[MetricRate]-1.5) > 1e-6 {
		t.Errorf("expected rate 1.5, got %v", m[MetricRate])
	}
	if math.Abs(m[MetricFrequency]-1.5) > 0.05 {
		t.Errorf("expected frequency 1.5, got %v", m[MetricFrequency])
	}
	if m[MetricBackward] != 0 {
		t.Errorf("expected no backward steps, got %v", m[MetricBackward])
	}
	if math.Abs(m[MetricTripodError]-0.3) > 0.01 {
		t.Errorf("expected tripod error 0.3, got %v", m[MetricTripodError])
	}

	cfg := config.DefaultConfig()
	cfg.Mask = []int{0}
	masked := Summarize(runPreset(t, cfg))
	if _, ok := masked[MetricTripodError]; ok {
		t.Error("expected no tripod error with the reference leg masked")
	}
	if math.Abs(masked[MetricRate]-1.5) > 1e-6 {
		t.Errorf("expected masked leg left out of the rate, got %v", masked[MetricRate])
	}
}
