package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for configuration and stepping.
var (
	// ErrInvalidParameterLength indicates a parameter vector whose length does
	// not match the selected encoding.
	ErrInvalidParameterLength = errors.New("dynamo: invalid parameter vector length")

	// ErrDegenerateConfiguration indicates a decoded duty time or period that
	// is zero or negative, or a duty that leaves no swing time.
	ErrDegenerateConfiguration = errors.New("dynamo: degenerate configuration")

	// ErrNumericInstability indicates oscillator state or shaped output became
	// NaN or Inf.
	ErrNumericInstability = errors.New("dynamo: numeric instability (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside [0, 1] or not finite.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrTimeReversed indicates a step time earlier than the previous one.
	ErrTimeReversed = errors.New("dynamo: time moved backwards")

	// ErrNotConfigured indicates a step on an engine that was never configured.
	ErrNotConfigured = errors.New("dynamo: engine not configured")
)

// StepError wraps an error with stepping context.
type StepError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
