package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/treasurysim/sim"
)

// Config represents the complete simulation configuration.
type Config struct {
	// Preset, when set, overrides Params with the named preset.
	Preset     string           `json:"preset,omitempty" yaml:"preset,omitempty"`
	Params     ParamsConfig     `json:"params" yaml:"params"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// ParamsConfig contains the three tunable simulation parameters (percents).
type ParamsConfig struct {
	ShockMagnitude     float64 `json:"shock_magnitude" yaml:"shock_magnitude"`
	TargetReserveRatio float64 `json:"target_reserve_ratio" yaml:"target_reserve_ratio"`
	YieldDistribution  float64 `json:"yield_distribution" yaml:"yield_distribution"`
}

// SimulationConfig contains playback parameters.
type SimulationConfig struct {
	Interval string `json:"interval" yaml:"interval"` // e.g. "2s"; the engine floors the cadence at 1s
}

// ParseInterval converts the interval string to a time.Duration. An empty
// string means the engine default.
func (s SimulationConfig) ParseInterval() (time.Duration, error) {
	if s.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Interval)
}

// JournalConfig contains run-recording parameters.
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	RunsFile  string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	StepsFile string `json:"steps_file,omitempty" yaml:"steps_file,omitempty"`
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging parameters.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// SimParams resolves the effective engine parameters, preferring the preset
// when one is named.
func (c *Config) SimParams() sim.Params {
	if c.Preset != "" {
		if p, ok := sim.PresetByName(c.Preset); ok {
			return p.Params
		}
	}
	return sim.Params{
		ShockMagnitude:     c.Params.ShockMagnitude,
		TargetReserveRatio: c.Params.TargetReserveRatio,
		YieldDistribution:  c.Params.YieldDistribution,
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Preset != "" {
		if _, ok := sim.PresetByName(c.Preset); !ok {
			return fmt.Errorf("unknown preset: %s", c.Preset)
		}
	}
	if c.Params.ShockMagnitude < 0 || c.Params.ShockMagnitude > 100 {
		return fmt.Errorf("params.shock_magnitude must be between 0 and 100")
	}
	if c.Params.TargetReserveRatio < 0 {
		return fmt.Errorf("params.target_reserve_ratio must be non-negative")
	}
	if c.Params.YieldDistribution < 0 || c.Params.YieldDistribution > 100 {
		return fmt.Errorf("params.yield_distribution must be between 0 and 100")
	}
	if d, err := c.Simulation.ParseInterval(); err != nil {
		return fmt.Errorf("simulation.interval: %w", err)
	} else if c.Simulation.Interval != "" && d <= 0 {
		return fmt.Errorf("simulation.interval must be positive")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.StepsFile == "" {
			return fmt.Errorf("journal runs_file and steps_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug|info|warn|error")
	}
	return nil
}

// Default returns a configuration with sensible defaults: the balanced
// preset, the engine's standard cadence and no run recording.
func Default() *Config {
	p := sim.DefaultParams()
	return &Config{
		Params: ParamsConfig{
			ShockMagnitude:     p.ShockMagnitude,
			TargetReserveRatio: p.TargetReserveRatio,
			YieldDistribution:  p.YieldDistribution,
		},
		Simulation: SimulationConfig{Interval: "2s"},
		Journal:    JournalConfig{Type: "none"},
		Log:        LogConfig{Level: "info"},
	}
}
