package config

import "sort"

// Presets are named parameter sets, all over a population of 1000.
var Presets = map[string]*Config{
	"reference": {
		Beta: 0.3, Gamma: 0.1, Dt: 0.1, Duration: 160,
		Initial: InitialConfig{S: 999, I: 1, R: 0},
	},
	"influenza": {
		Beta: 0.5, Gamma: 1.0 / 3.0, Dt: 0.05, Duration: 200,
		Initial: InitialConfig{S: 990, I: 10, R: 0},
	},
	"measles": {
		Beta: 1.5, Gamma: 0.1, Dt: 0.01, Duration: 60,
		Initial: InitialConfig{S: 999, I: 1, R: 0},
	},
	"subcritical": {
		Beta: 0.08, Gamma: 0.1, Dt: 0.1, Duration: 160,
		Initial: InitialConfig{S: 950, I: 50, R: 0},
	},
	"vaccinated": {
		Beta: 0.3, Gamma: 0.1, Dt: 0.1, Duration: 160,
		Initial: InitialConfig{S: 299, I: 1, R: 700},
	},
	"no-infection": {
		Beta: 0.3, Gamma: 0.1, Dt: 0.1, Duration: 160,
		Initial: InitialConfig{S: 1000, I: 0, R: 0},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	if cfg.Integrator == "" {
		cfg.Integrator = DefaultIntegrator
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
