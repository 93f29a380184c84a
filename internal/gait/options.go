package gait

import (
	"io"
	"log/slog"

	"github.com/san-kum/hexcpg/internal/dynamo"
)

type Option func(*Engine)

// WithLogger sets the engine's logger. Configuration swaps are logged at
// debug level and numeric failures at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIntegrator replaces the default forward Euler integrator.
func WithIntegrator(integ dynamo.Integrator) Option {
	return func(e *Engine) {
		if integ != nil {
			e.integ = integ
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
