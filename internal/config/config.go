// Package config provides unified configuration loading for the extraction
// pipeline. Supports YAML files, environment variables, and programmatic
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the pipeline.
type Config struct {
	Inputs        InputsConfig        `yaml:"inputs"`
	Outputs       OutputsConfig       `yaml:"outputs"`
	Dataset       DatasetConfig       `yaml:"dataset"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// InputsConfig holds the source document locations.
type InputsConfig struct {
	HTMLDir string `yaml:"html_dir"`
	PDFDir  string `yaml:"pdf_dir"`
}

// OutputsConfig holds the output locations.
type OutputsConfig struct {
	Dir string `yaml:"dir"`
}

// DatasetConfig holds instruction-dataset build settings.
type DatasetConfig struct {
	Count int `yaml:"count"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Inputs: InputsConfig{
			HTMLDir: "data/html",
			PDFDir:  "data/pdf",
		},
		Outputs: OutputsConfig{
			Dir: "data/out",
		},
		Dataset: DatasetConfig{
			Count: 100,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Inputs.HTMLDir == "" && c.Inputs.PDFDir == "" {
		return fmt.Errorf("at least one input directory must be set")
	}

	if c.Outputs.Dir == "" {
		return fmt.Errorf("output directory must be set")
	}

	if c.Dataset.Count < 1 {
		return fmt.Errorf("dataset count must be positive: %d", c.Dataset.Count)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MATSHEET_HTML_DIR"); v != "" {
		cfg.Inputs.HTMLDir = v
	}

	if v := os.Getenv("MATSHEET_PDF_DIR"); v != "" {
		cfg.Inputs.PDFDir = v
	}

	if v := os.Getenv("MATSHEET_OUT_DIR"); v != "" {
		cfg.Outputs.Dir = v
	}

	if v := os.Getenv("MATSHEET_DATASET_COUNT"); v != "" {
		if count, err := strconv.Atoi(v); err == nil {
			cfg.Dataset.Count = count
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
