package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/gait"
	"github.com/san-kum/hexcpg/internal/integrators"
)

const (
	DefaultEncoding   = "clock/v4"
	DefaultIntegrator = "euler"
	DefaultDt         = 0.01
	DefaultDuration   = 10.0
	DefaultDataDir    = ".hexcpg"
)

// Config describes one gait run. Fields tagged with env can be overridden
// from the environment after the file is loaded.
type Config struct {
	Encoding   string    `yaml:"encoding" env:"HEXCPG_ENCODING"`
	Params     []float64 `yaml:"params"`
	Integrator string    `yaml:"integrator" env:"HEXCPG_INTEGRATOR"`
	Dt         float64   `yaml:"dt" env:"HEXCPG_DT"`
	Duration   float64   `yaml:"duration" env:"HEXCPG_DURATION"`
	DataDir    string    `yaml:"data_dir" env:"HEXCPG_DATA_DIR"`
	Preset     string    `yaml:"preset,omitempty"`

	// Mask lists legs whose commands are zeroed in stored traces.
	Mask []int `yaml:"mask,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Encoding:   DefaultEncoding,
		Params:     []float64{0.5, 0.5, 0.5, 0.5},
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		DataDir:    DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides cfg with any HEXCPG_* variables that are set. Unset
// variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that the configuration can drive an engine: the encoding
// and integrator exist, the parameters decode, and the time grid is sane.
func (c *Config) Validate() error {
	enc, err := gait.LookupEncoding(c.Encoding)
	if err != nil {
		return err
	}
	if _, err := enc.Decode(c.Params); err != nil {
		return err
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return err
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.Dt > c.Duration {
		return fmt.Errorf("dt %v exceeds duration %v", c.Dt, c.Duration)
	}
	for _, leg := range c.Mask {
		if leg < 0 || leg >= dynamo.NumLegs {
			return fmt.Errorf("mask leg %d out of range [0, %d)", leg, dynamo.NumLegs)
		}
	}
	return nil
}

// Steps is the number of steps after t=0 needed to cover Duration.
func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Params = append([]float64(nil), c.Params...)
	out.Mask = append([]int(nil), c.Mask...)
	return &out
}
