// Package automation runs scripted sequences of SIR simulations described
// in YAML.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/experiment"
)

// Scenario is a named list of runs. LogLevel applies to the whole scenario;
// a log_level set inside a step is ignored.
type Scenario struct {
	Name        string
	Description string
	LogLevel    string
	Steps       []Step
}

// Step is one run. Its configuration starts from Preset (or the defaults)
// and is overlaid with whatever keys the step sets.
type Step struct {
	Name   string
	Preset string
	Config *config.Config
}

type rawScenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	LogLevel    string      `yaml:"log_level"`
	Steps       []yaml.Node `yaml:"steps"`
}

type stepHeader struct {
	Name   string `yaml:"name"`
	Preset string `yaml:"preset"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", raw.Name)
	}

	sc := &Scenario{Name: raw.Name, Description: raw.Description, LogLevel: raw.LogLevel}
	for i := range raw.Steps {
		node := &raw.Steps[i]

		var hdr stepHeader
		if err := node.Decode(&hdr); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		cfg := config.DefaultConfig()
		if hdr.Preset != "" {
			if cfg = config.GetPreset(hdr.Preset); cfg == nil {
				return nil, fmt.Errorf("step %d: unknown preset: %s", i+1, hdr.Preset)
			}
		}
		// Keys present in the step override the base; absent keys keep it.
		if err := node.Decode(cfg); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := hdr.Name
		if name == "" {
			name = hdr.Preset
		}
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		sc.Steps = append(sc.Steps, Step{Name: name, Preset: hdr.Preset, Config: cfg})
	}
	return sc, nil
}

// StepResult pairs a step with its simulated outcome.
type StepResult struct {
	Step    Step
	Outcome *experiment.Outcome
}

// RunScenario executes all steps in order. It stops at the first failing
// step and returns the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "n", i+1, "of", len(scenario.Steps), "name", step.Name)

		cfg := step.Config
		exp := experiment.New(experiment.Config{
			Beta:       cfg.Beta,
			Gamma:      cfg.Gamma,
			Initial:    cfg.InitialState(),
			Integrator: cfg.Integrator,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
		})
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Outcome: out})
	}

	return results, nil
}
