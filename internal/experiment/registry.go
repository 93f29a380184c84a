package experiment

import (
	"log/slog"

	"github.com/san-kum/hexcpg/internal/config"
	"github.com/san-kum/hexcpg/internal/gait"
	"github.com/san-kum/hexcpg/internal/integrators"
)

// NewEngine resolves the encoding and integrator named in cfg and returns a
// configured engine.
func NewEngine(cfg *config.Config, logger *slog.Logger) (*gait.Engine, error) {
	enc, err := gait.LookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	eng := gait.New(enc, gait.WithIntegrator(integ), gait.WithLogger(logger))
	if err := eng.Configure(cfg.Params); err != nil {
		return nil, err
	}
	return eng, nil
}

func ListEncodings() []string {
	return gait.EncodingNames()
}

func ListIntegrators() []string {
	return integrators.Names()
}
