package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/episim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Beta != 0.3 || cfg.Gamma != 0.1 {
		t.Errorf("expected beta 0.3 gamma 0.1, got %f %f", cfg.Beta, cfg.Gamma)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration != 160 {
		t.Errorf("expected duration 160, got %f", cfg.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	m, err := cfg.Model()
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	if m.Params().Population != 1000 {
		t.Errorf("expected population 1000, got %f", m.Params().Population)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("beta: 0.5\ninitial:\n  i: 5\nduration: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Beta != 0.5 {
		t.Errorf("expected beta 0.5, got %f", cfg.Beta)
	}
	if cfg.Gamma != DefaultGamma {
		t.Errorf("expected default gamma, got %f", cfg.Gamma)
	}
	if cfg.Initial.I != 5 || cfg.Initial.S != DefaultS {
		t.Errorf("unexpected initial state %+v", cfg.Initial)
	}
	if cfg.Duration != 30 {
		t.Errorf("expected duration 30, got %f", cfg.Duration)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("beta: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("influenza")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.Initial = InitialConfig{} }},
		{"negative beta", func(c *Config) { c.Beta = -1 }},
		{"negative gamma", func(c *Config) { c.Gamma = -0.1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative compartment", func(c *Config) { c.Initial.R = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("measles")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Beta != 1.5 {
		t.Errorf("expected beta 1.5, got %f", cfg.Beta)
	}
	if cfg.Integrator != DefaultIntegrator {
		t.Errorf("expected default integrator, got %q", cfg.Integrator)
	}

	cfg.Beta = 99
	if Presets["measles"].Beta != 1.5 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] >= presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
