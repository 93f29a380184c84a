package config

import "sort"

// Presets holds named parameter vectors per encoding. Phase offsets in the
// clock encodings are fractions of half a period, so 1 puts a leg half a
// cycle behind leg 0.
var Presets = map[string]map[string]*Config{
	"clock/v4": {
		"walk": {Encoding: "clock/v4", Params: []float64{0.2, 0.7, 0.4, 0.5}},
		"trot": {Encoding: "clock/v4", Params: []float64{0.5, 0.5, 0.5, 0.5}},
		"dash": {Encoding: "clock/v4", Params: []float64{1, 0.4, 0.6, 0.5}},
	},
	"clock/v9": {
		"tripod": {Encoding: "clock/v9", Params: []float64{0.5, 0.5, 0.5, 0.5, 1, 0, 1, 0, 1}},
		"wave":   {Encoding: "clock/v9", Params: []float64{0.4, 0.7, 0.5, 0.5, 0.2, 0.4, 0.6, 0.8, 1}},
		"pronk":  {Encoding: "clock/v9", Params: []float64{0.5, 0.5, 0.5, 0.5, 0, 0, 0, 0, 0}},
	},
	"clock/v24": {
		"tripod": {Encoding: "clock/v24", Params: clockV24(0.5, 0.5, 0.5, [5]float64{1, 0, 1, 0, 1})},
		"ripple": {Encoding: "clock/v24", Params: clockV24(0.3, 0.65, 0.4, [5]float64{0.67, 1, 0.33, 0.67, 1})},
	},
	"kuramoto/v6": {
		"tripod": {Encoding: "kuramoto/v6", Params: []float64{0.5, 0.5, 0.5, 0.5, 0.3, 1}},
		"pronk":  {Encoding: "kuramoto/v6", Params: []float64{0.5, 0.5, 0.5, 0.5, 0.3, 0}},
	},
	"hopf/v10": {
		"bound":  {Encoding: "hopf/v10", Integrator: "rk4", Params: []float64{1.0 / 3, 0.5, 1.0 / 3, 0.5, 0, 1, 0, 0, 0, 0}},
		"tripod": {Encoding: "hopf/v10", Integrator: "rk4", Params: []float64{1.0 / 3, 0.5, 1.0 / 3, 0.5, 0, 1, 1, 0, 1, 0}},
	},
	"hopf/v5-full": {
		"tripod": {Encoding: "hopf/v5-full", Integrator: "rk4", Params: []float64{1.0 / 3, 0.5, 1.0 / 3, 0.5, 0}},
	},
}

// clockV24 builds the full per-leg layout from shared values.
func clockV24(period, duty, stance float64, phase [5]float64) []float64 {
	p := make([]float64, 0, 24)
	p = append(p, period)
	for _, v := range []float64{duty, stance, 0.5} {
		for i := 0; i < 6; i++ {
			p = append(p, v)
		}
	}
	for _, v := range phase {
		p = append(p, v)
	}
	return p
}

// GetPreset returns a full configuration for the named preset, or nil.
func GetPreset(encoding, name string) *Config {
	byName, ok := Presets[encoding]
	if !ok {
		return nil
	}
	p, ok := byName[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Encoding = p.Encoding
	cfg.Params = append([]float64(nil), p.Params...)
	cfg.Preset = name
	if p.Integrator != "" {
		cfg.Integrator = p.Integrator
	}
	return cfg
}

func ListPresets(encoding string) []string {
	byName, ok := Presets[encoding]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
