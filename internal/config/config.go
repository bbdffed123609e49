package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/epidemic"
)

const (
	DefaultBeta       = 0.3
	DefaultGamma      = 0.1
	DefaultS          = 999.0
	DefaultI          = 1.0
	DefaultR          = 0.0
	DefaultDt         = 0.1
	DefaultDuration   = 160.0
	DefaultIntegrator = "euler"
	DefaultLogLevel   = "info"
)

type Config struct {
	Beta       float64       `yaml:"beta"`
	Gamma      float64       `yaml:"gamma"`
	Initial    InitialConfig `yaml:"initial"`
	Dt         float64       `yaml:"dt"`
	Duration   float64       `yaml:"duration"`
	Integrator string        `yaml:"integrator"`
	LogLevel   string        `yaml:"log_level"`
}

type InitialConfig struct {
	S float64 `yaml:"s"`
	I float64 `yaml:"i"`
	R float64 `yaml:"r"`
}

// DefaultConfig is the reference outbreak: R0 = 3 in a population of 1000
// with one initial case, run for 160 days.
func DefaultConfig() *Config {
	return &Config{
		Beta:  DefaultBeta,
		Gamma: DefaultGamma,
		Initial: InitialConfig{
			S: DefaultS,
			I: DefaultI,
			R: DefaultR,
		},
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Integrator: DefaultIntegrator,
		LogLevel:   DefaultLogLevel,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
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

func (c *Config) InitialState() epidemic.Compartments {
	return epidemic.Compartments{S: c.Initial.S, I: c.Initial.I, R: c.Initial.R}
}

// Model builds the validated SIR model; the population is S+I+R.
func (c *Config) Model() (*epidemic.Model, error) {
	return epidemic.FromInitial(c.Beta, c.Gamma, c.InitialState())
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{Dt: c.Dt, Duration: c.Duration}
}

func (c *Config) Validate() error {
	if _, err := c.Model(); err != nil {
		return err
	}
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	init := c.InitialState()
	if init.S < 0 || init.I < 0 || init.R < 0 {
		return fmt.Errorf("%w: initial compartments must be non-negative, got %+v", dynamo.ErrParameterBounds, init)
	}
	return nil
}
