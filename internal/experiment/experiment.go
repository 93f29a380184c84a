package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/san-kum/hexcpg/internal/config"
	"github.com/san-kum/hexcpg/internal/gait"
)

// Trace is the sampled output of one run.
type Trace struct {
	Encoding   string
	Params     []float64
	Integrator string
	Dt         float64
	Duration   float64
	Mask       []int

	Times  []float64
	Angles []gait.Angles

	// Err is the step failure that ended the run early, if any.
	Err        error
	StepsTaken int
}

// Leg returns the angle series of one leg.
func (t *Trace) Leg(leg int) []float64 {
	out := make([]float64, len(t.Angles))
	for i, a := range t.Angles {
		out[i] = a[leg]
	}
	return out
}

// Observer sees every sample as it is produced, before masking.
type Observer interface {
	OnStep(t float64, angles gait.Angles)
}

type ObserverFunc func(t float64, angles gait.Angles)

func (f ObserverFunc) OnStep(t float64, angles gait.Angles) { f(t, angles) }

type Runner struct {
	logger    *slog.Logger
	observers []Observer
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps a fresh engine from t=0 to cfg.Duration on a fixed grid. A step
// failure stops the run and is recorded in Trace.Err; the samples before it
// are kept. Only configuration problems and cancellation return an error.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Trace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eng, err := NewEngine(cfg, r.logger)
	if err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	trace := &Trace{
		Encoding:   cfg.Encoding,
		Params:     eng.Parameters(),
		Integrator: eng.Integrator().Name(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Mask:       append([]int(nil), cfg.Mask...),
		Times:      make([]float64, 0, steps+1),
		Angles:     make([]gait.Angles, 0, steps+1),
	}

	r.logger.Info("run started",
		"encoding", cfg.Encoding,
		"integrator", trace.Integrator,
		"steps", steps)

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return trace, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		angles, err := eng.Step(t)
		if err != nil {
			trace.Err = err
			r.logger.Warn("run stopped early", "t", t, "error", err)
			break
		}
		for _, obs := range r.observers {
			obs.OnStep(t, angles)
		}

		for _, leg := range cfg.Mask {
			angles[leg] = 0
		}
		trace.Times = append(trace.Times, t)
		trace.Angles = append(trace.Angles, angles)
		trace.StepsTaken = i
	}

	r.logger.Info("run finished", "steps", trace.StepsTaken, "failed", trace.Err != nil)
	return trace, nil
}

// Run is a convenience wrapper around a Runner without observers.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Trace, error) {
	return NewRunner(logger).Run(ctx, cfg)
}

func (t *Trace) String() string {
	return fmt.Sprintf("%s (%s) %d samples over %.2fs", t.Encoding, t.Integrator, len(t.Times), t.Duration)
}
