// Package config provides configuration management for the prodrules CLI.
package config

import (
	"fmt"
	"slices"

	"github.com/solatis/prodrules/internal/core/logging"
)

// Output formats for product and rule listings.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// AllOutputs lists the accepted output formats.
var AllOutputs = []string{OutputTable, OutputJSON, OutputYAML}

// Config holds CLI configuration.
type Config struct {
	DatabaseURL  string
	LogLevel     string
	LogFormat    string
	Ruleset      string
	Workers      int
	OutputFormat string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		DatabaseURL:  "sqlite://prodrules.db",
		LogLevel:     "info",
		LogFormat:    "text",
		Ruleset:      "default",
		Workers:      4,
		OutputFormat: OutputTable,
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("apply.workers must be positive, got %d", c.Workers)
	}
	if c.Ruleset == "" {
		return fmt.Errorf("apply.ruleset must not be empty")
	}
	if !slices.Contains(AllOutputs, c.OutputFormat) {
		return fmt.Errorf("output.format must be one of %v, got %q", AllOutputs, c.OutputFormat)
	}
	return nil
}
