package gait

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/integrators"
	"github.com/san-kum/hexcpg/internal/oscillators"
)

// Angles holds one joint-angle command per leg, in radians. Values are
// continuous and grow without bound as the gait runs.
type Angles [dynamo.NumLegs]float64

// Engine drives one oscillator network from a decoded parameter vector.
type Engine struct {
	enc    *Encoding
	integ  dynamo.Integrator
	logger *slog.Logger

	params  []float64
	decoded *Decoded
	net     oscillators.Network
	unwrap  *Unwrapper

	lastT float64
	steps int
}

func New(enc *Encoding, opts ...Option) *Engine {
	e := &Engine{
		enc:    enc,
		integ:  integrators.NewEuler(),
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Configure validates p and, only if it is fully valid, replaces the
// parameters and resets the oscillator state and clock. On error the engine
// keeps its previous configuration.
func (e *Engine) Configure(p []float64) error {
	d, err := e.enc.Decode(p)
	if err != nil {
		return err
	}

	net := d.Network()
	var unwrap *Unwrapper
	if e.enc.Variant == VariantHopf {
		unwrap = &Unwrapper{}
	}

	e.params = append([]float64(nil), p...)
	e.decoded = d
	e.net = net
	e.unwrap = unwrap
	e.lastT = 0
	e.steps = 0

	e.logger.Debug("gait configured",
		"encoding", e.enc.Name,
		"integrator", e.integ.Name(),
		"period", d.Period,
		"frequency", d.Frequency)
	return nil
}

// Step advances the network to time t (seconds since Configure) and returns
// the shaped angles. Repeated calls with the same t return the same angles.
func (e *Engine) Step(t float64) (Angles, error) {
	var out Angles
	if e.net == nil {
		return out, dynamo.ErrNotConfigured
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return out, e.stepError(t, fmt.Errorf("time %v: %w", t, dynamo.ErrNumericInstability))
	}
	if t < e.lastT {
		return out, fmt.Errorf("step to t=%.6f after t=%.6f: %w", t, e.lastT, dynamo.ErrTimeReversed)
	}

	// Work on copies so a failure anywhere in the step leaves the network
	// and the unwrapper at the last good step.
	net := e.net
	if dt := t - e.lastT; dt > 0 {
		net = e.net.Clone()
		if err := net.Advance(e.integ, e.lastT, dt); err != nil {
			return out, e.stepError(t, err)
		}
	}

	var unwrap Unwrapper
	if e.unwrap != nil {
		unwrap = *e.unwrap
	}
	limit := dynamo.TwoPi * net.MaxRate() * (t - e.lastT)
	for leg := range out {
		out[leg] = Angle(net.Sample(leg), e.decoded.Legs[leg])
		if math.IsNaN(out[leg]) || math.IsInf(out[leg], 0) {
			return Angles{}, e.stepError(t, fmt.Errorf("leg %d output %v: %w", leg, out[leg], dynamo.ErrNumericInstability))
		}
		if e.unwrap != nil {
			out[leg] = unwrap.Unwrap(leg, out[leg], limit)
		}
	}

	e.net = net
	if e.unwrap != nil {
		*e.unwrap = unwrap
	}
	e.lastT = t
	e.steps++
	return out, nil
}

func (e *Engine) stepError(t float64, err error) error {
	e.logger.Warn("gait step failed",
		"encoding", e.enc.Name,
		"step", e.steps,
		"t", t,
		"error", err)
	return &dynamo.StepError{
		Step:    e.steps,
		Time:    t,
		State:   e.net.State(),
		Wrapped: err,
	}
}

// Parameters returns a copy of the active parameter vector, or nil before
// the first successful Configure.
func (e *Engine) Parameters() []float64 {
	if e.params == nil {
		return nil
	}
	return append([]float64(nil), e.params...)
}

func (e *Engine) Encoding() *Encoding { return e.enc }

func (e *Engine) Integrator() dynamo.Integrator { return e.integ }

// Time is the last time successfully stepped to.
func (e *Engine) Time() float64 { return e.lastT }

// Decoded returns a copy of the active decoded configuration.
func (e *Engine) Decoded() (*Decoded, bool) {
	if e.decoded == nil {
		return nil, false
	}
	return e.decoded.Clone(), true
}

// Snapshot is a read-only view of the network for diagnostics.
type Snapshot struct {
	Time    float64
	Steps   int
	State   dynamo.State
	Samples [dynamo.NumLegs]oscillators.Sample
}

func (e *Engine) Snapshot() (Snapshot, bool) {
	if e.net == nil {
		return Snapshot{}, false
	}
	s := Snapshot{Time: e.lastT, Steps: e.steps, State: e.net.State()}
	for leg := range s.Samples {
		s.Samples[leg] = e.net.Sample(leg)
	}
	return s, true
}
