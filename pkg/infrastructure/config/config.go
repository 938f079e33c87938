// Package config provides centralized configuration management.
//
// Configuration is loaded from a YAML file; ${VAR} references in the
// file are expanded from the environment before parsing.
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml")
//	strategy, err := cfg.Strategy.ToStrategyConfig()
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/orderalloc/orderalloc/pkg/domain/entities"
)

// Config represents the entire application configuration
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Strategy StrategyConfig `yaml:"strategy"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StrategyConfig holds allocation strategy settings as written in
// YAML; ToStrategyConfig converts them to domain form.
type StrategyConfig struct {
	Type                 string        `yaml:"type"`
	Mode                 string        `yaml:"mode"`
	Phases               []PhaseConfig `yaml:"phases"`
	MinGuaranteePercent  string        `yaml:"min_guarantee_percent"`
	UrgentThresholdDays  int           `yaml:"urgent_threshold_days"`
	MaxAllocationPercent string        `yaml:"max_allocation_percent"`
	MinAllocationQty     string        `yaml:"min_allocation_qty"`
}

// PhaseConfig holds one hybrid phase as written in YAML
type PhaseConfig struct {
	Kind          string `yaml:"kind"`
	WeightPercent string `yaml:"weight_percent"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${ALLOC_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "allocations.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Strategy.Type == "" {
		c.Strategy.Type = "FCFS"
	}
}

// ToStrategyConfig converts the YAML strategy section into a validated
// domain strategy configuration.
func (c StrategyConfig) ToStrategyConfig() (*entities.StrategyConfig, error) {
	strategyType, err := entities.ParseStrategyType(c.Type)
	if err != nil {
		return nil, fmt.Errorf("strategy type: %w", err)
	}

	cfg := entities.NewStrategyConfig(strategyType)

	if c.Mode != "" {
		mode, err := entities.ParseAllocationMode(c.Mode)
		if err != nil {
			return nil, fmt.Errorf("allocation mode: %w", err)
		}
		cfg.AllocationMode = mode
	}

	if c.MinGuaranteePercent != "" {
		pct, err := decimal.NewFromString(c.MinGuaranteePercent)
		if err != nil {
			return nil, fmt.Errorf("invalid min_guarantee_percent %q: %w", c.MinGuaranteePercent, err)
		}
		cfg.MinGuaranteePercent = pct
	}

	if c.MaxAllocationPercent != "" {
		pct, err := decimal.NewFromString(c.MaxAllocationPercent)
		if err != nil {
			return nil, fmt.Errorf("invalid max_allocation_percent %q: %w", c.MaxAllocationPercent, err)
		}
		cfg.MaxAllocationPercent = pct
	}

	if c.MinAllocationQty != "" {
		qty, err := decimal.NewFromString(c.MinAllocationQty)
		if err != nil {
			return nil, fmt.Errorf("invalid min_allocation_qty %q: %w", c.MinAllocationQty, err)
		}
		cfg.MinAllocationQty = qty
	}

	cfg.UrgentThresholdDays = c.UrgentThresholdDays

	for i, phase := range c.Phases {
		kind, err := entities.ParsePhaseKind(phase.Kind)
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i+1, err)
		}
		weight, err := decimal.NewFromString(phase.WeightPercent)
		if err != nil {
			return nil, fmt.Errorf("phase %d: invalid weight_percent %q: %w", i+1, phase.WeightPercent, err)
		}
		cfg.Phases = append(cfg.Phases, entities.Phase{Kind: kind, WeightPercent: weight})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
