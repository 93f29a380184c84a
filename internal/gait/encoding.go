package gait

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/hexcpg/internal/coupling"
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/oscillators"
)

type Variant int

const (
	VariantClock Variant = iota
	VariantKuramoto
	VariantHopf
)

func (v Variant) String() string {
	switch v {
	case VariantClock:
		return "clock"
	case VariantKuramoto:
		return "kuramoto"
	case VariantHopf:
		return "hopf"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

const (
	// MinPeriod keeps the gait from collapsing into a motionless zero
	// frequency; 1/3 s is three cycles per second.
	MinPeriod = 1.0 / 3
	MaxPeriod = 1.0

	MaxFrequency = 1 / MinPeriod
	MinFrequency = 1 / MaxPeriod

	// offsetRange is the span of the clock variants' output offset.
	offsetRange = math.Pi / 2

	maxKuramotoWeight = math.Pi

	hopfAmplitude = 1.0
	hopfMaxFreq   = 3.0
	hopfMaxK      = 40.0
	hopfMaxSigma  = 3.0
	hopfWeight    = 1.0
)

// Encoding is one versioned layout of the parameter vector.
type Encoding struct {
	Name        string
	Variant     Variant
	Size        int
	Description string

	decode func(p []float64) (*Decoded, error)
}

var (
	ClockV24 = &Encoding{
		Name:        "clock/v24",
		Variant:     VariantClock,
		Size:        24,
		Description: "period, per-leg duty, stance, offset and phase offsets for legs 1-5",
		decode:      decodeClockV24,
	}
	ClockV9 = &Encoding{
		Name:        "clock/v9",
		Variant:     VariantClock,
		Size:        9,
		Description: "frequency, shared duty, stance and offset, phase offsets for legs 1-5",
		decode:      decodeClockV9,
	}
	ClockV4 = &Encoding{
		Name:        "clock/v4",
		Variant:     VariantClock,
		Size:        4,
		Description: "frequency, shared duty, stance and offset, legs in phase",
		decode:      decodeClockV4,
	}
	KuramotoV6 = &Encoding{
		Name:        "kuramoto/v6",
		Variant:     VariantKuramoto,
		Size:        6,
		Description: "frequency, duty, stance, offset, coupling weight, tripod bias",
		decode:      decodeKuramotoV6,
	}
	HopfV10 = &Encoding{
		Name:        "hopf/v10",
		Variant:     VariantHopf,
		Size:        10,
		Description: "frequency, convergence k, coupling sigma, stance share, offset, five anchor biases",
		decode:      decodeHopfV10,
	}
	HopfV5Full = &Encoding{
		Name:        "hopf/v5-full",
		Variant:     VariantHopf,
		Size:        5,
		Description: "frequency, convergence k, coupling sigma, stance share, offset, every pair coupled as a tripod",
		decode:      decodeHopfV5Full,
	}
)

var encodings = map[string]*Encoding{
	ClockV24.Name:   ClockV24,
	ClockV9.Name:    ClockV9,
	ClockV4.Name:    ClockV4,
	KuramotoV6.Name: KuramotoV6,
	HopfV10.Name:    HopfV10,
	HopfV5Full.Name: HopfV5Full,
}

func LookupEncoding(name string) (*Encoding, error) {
	enc, ok := encodings[name]
	if !ok {
		return nil, fmt.Errorf("unknown encoding: %s (available: %v)", name, EncodingNames())
	}
	return enc, nil
}

func EncodingNames() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Encodings() []*Encoding {
	names := EncodingNames()
	out := make([]*Encoding, len(names))
	for i, name := range names {
		out[i] = encodings[name]
	}
	return out
}

func (e *Encoding) String() string { return e.Name }

// Decode validates p against the encoding and derives every physical
// quantity the engine needs. p is not retained.
func (e *Encoding) Decode(p []float64) (*Decoded, error) {
	if len(p) != e.Size {
		return nil, fmt.Errorf("%s: expected %d parameters, got %d: %w", e.Name, e.Size, len(p), dynamo.ErrInvalidParameterLength)
	}
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, fmt.Errorf("%s: parameter %d = %v not in [0, 1]: %w", e.Name, i, v, dynamo.ErrParameterBounds)
		}
	}

	d, err := e.decode(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	d.Encoding = e
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return d, nil
}

func clockFrequency(p float64) float64 {
	return math.Max(MinFrequency, math.Min(MaxFrequency, p*MaxFrequency))
}

func clockOffset(p float64) float64 {
	return (p - 0.5) * offsetRange
}

func decodeClockV24(p []float64) (*Decoded, error) {
	period := MaxPeriod - p[0]*(MaxPeriod-MinPeriod)
	d := &Decoded{Period: period, Frequency: 1 / period}
	for i := 0; i < dynamo.NumLegs; i++ {
		d.Legs[i] = LegShape{
			DutyFactor: p[1+i],
			DutyTime:   p[1+i] * period,
			Period:     period,
			Stance:     p[7+i] * math.Pi,
			Offset:     clockOffset(p[13+i]),
		}
		if i > 0 {
			d.Legs[i].PhaseOffset = p[18+i] * period / 2
		}
	}
	return d, nil
}

func decodeSharedClock(p []float64) *Decoded {
	freq := clockFrequency(p[0])
	period := 1 / freq
	d := &Decoded{Period: period, Frequency: freq}
	for i := range d.Legs {
		d.Legs[i] = LegShape{
			DutyFactor: p[1],
			DutyTime:   p[1] * period,
			Period:     period,
			Stance:     p[2] * math.Pi,
			Offset:     clockOffset(p[3]),
		}
	}
	return d
}

func decodeClockV9(p []float64) (*Decoded, error) {
	d := decodeSharedClock(p)
	for i := 1; i < dynamo.NumLegs; i++ {
		d.Legs[i].PhaseOffset = p[3+i] * d.Period / 2
	}
	return d, nil
}

func decodeClockV4(p []float64) (*Decoded, error) {
	return decodeSharedClock(p), nil
}

func decodeKuramotoV6(p []float64) (*Decoded, error) {
	d := decodeSharedClock(p)
	d.CouplingWeight = p[4] * maxKuramotoWeight
	d.Topology = coupling.AlternatingTripod(p[5]*math.Pi, d.CouplingWeight)
	for j := 1; j < dynamo.NumLegs; j++ {
		b, _ := d.Topology.Bias(0, j)
		rem, _ := dynamo.FloorMod(b, 2*math.Pi)
		d.Legs[j].PhaseOffset = rem / (2 * math.Pi) * d.Period
	}
	return d, nil
}

func decodeHopfV10(p []float64) (*Decoded, error) {
	d, err := decodeHopf(p)
	if err != nil {
		return nil, err
	}
	d.Topology = coupling.Spanning(coupling.Anchors{
		Phi14: p[5] * math.Pi,
		Phi12: p[6] * math.Pi,
		Phi13: p[7] * math.Pi,
		Phi45: p[8] * math.Pi,
		Phi46: p[9] * math.Pi,
	}, hopfWeight)
	return d, nil
}

// decodeHopfV5Full couples all fifteen pairs with a fixed bias: 0 between
// legs of equal parity and π across, so {0,2,4} and {1,3,5} settle in
// antiphase.
func decodeHopfV5Full(p []float64) (*Decoded, error) {
	d, err := decodeHopf(p)
	if err != nil {
		return nil, err
	}
	d.Topology = coupling.AlternatingTripod(math.Pi, hopfWeight)
	return d, nil
}

// decodeHopf reads the five entries the hopf layouts share.
func decodeHopf(p []float64) (*Decoded, error) {
	freq := p[0] * hopfMaxFreq
	if freq <= 0 {
		return nil, fmt.Errorf("frequency %v: %w", freq, dynamo.ErrDegenerateConfiguration)
	}
	stance := p[3]
	d := &Decoded{
		Period:         1 / freq,
		Frequency:      freq,
		CouplingWeight: hopfWeight,
		Hopf: oscillators.HopfParams{
			Amplitude: hopfAmplitude,
			Freq:      freq,
			K:         p[1] * hopfMaxK,
			Sigma:     p[2] * hopfMaxSigma,
			Stance:    stance,
		},
	}
	// The land-couple output already spans one turn per cycle: stance
	// covers [0, 2sπ] and swing the rest.
	for i := range d.Legs {
		d.Legs[i] = LegShape{
			DutyFactor: stance,
			DutyTime:   2 * math.Pi * stance,
			Period:     2 * math.Pi,
			Stance:     2 * math.Pi * stance,
			Offset:     p[4] * 2 * math.Pi,
		}
	}
	return d, nil
}
