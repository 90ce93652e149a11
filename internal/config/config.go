package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputPrecision   = 5
	DefaultBatchSize         = 5
	DefaultInitialLines      = 10
	DefaultAutofillMaxLength = 20
	DefaultMaxSteps          = 200
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Values   []string       `yaml:"values"`
	Mask     []bool         `yaml:"mask,omitempty"`
	Settings SettingsConfig `yaml:"settings"`
	Compute  ComputeConfig  `yaml:"compute"`
}

type SettingsConfig struct {
	OutputPrecision int  `yaml:"output_precision"`
	ShowPivot       bool `yaml:"show_pivot"`
}

type ComputeConfig struct {
	// BatchSize is the number of rows one "compute more" request adds.
	BatchSize int `yaml:"batch_size"`
	// InitialLines rows are computed on every restart, but only for inputs
	// shorter than AutofillMaxLength.
	InitialLines      int `yaml:"initial_lines"`
	AutofillMaxLength int `yaml:"autofill_max_length"`
	MaxSteps          int `yaml:"max_steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Values: []string{"3.14159", "1.0"},
		Mask:   []bool{true, true},
		Settings: SettingsConfig{
			OutputPrecision: DefaultOutputPrecision,
		},
		Compute: ComputeConfig{
			BatchSize:         DefaultBatchSize,
			InitialLines:      DefaultInitialLines,
			AutofillMaxLength: DefaultAutofillMaxLength,
			MaxSteps:          DefaultMaxSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// Validate checks shapes only; value strings are parsed by the session.
func (c *Config) Validate() error {
	if len(c.Values) < 2 {
		return fmt.Errorf("%w: need at least 2 values, got %d", ErrInvalid, len(c.Values))
	}
	if len(c.Mask) != 0 && len(c.Mask) != len(c.Values) {
		return fmt.Errorf("%w: %d mask entries for %d values", ErrInvalid, len(c.Mask), len(c.Values))
	}
	if c.Settings.OutputPrecision < 1 {
		return fmt.Errorf("%w: output_precision must be at least 1", ErrInvalid)
	}
	if c.Compute.BatchSize < 1 || c.Compute.MaxSteps < 1 || c.Compute.InitialLines < 0 {
		return fmt.Errorf("%w: compute counts must be positive", ErrInvalid)
	}
	return nil
}

// InputMask returns the mask, enabling every value when none is configured.
func (c *Config) InputMask() []bool {
	mask := make([]bool, len(c.Values))
	if len(c.Mask) == 0 {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}
	copy(mask, c.Mask)
	return mask
}

func (c *Config) Clone() *Config {
	out := *c
	out.Values = append([]string(nil), c.Values...)
	out.Mask = append([]bool(nil), c.Mask...)
	return &out
}
