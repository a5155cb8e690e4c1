// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when neither the config file nor flags set a value.
const (
	DefaultMaxApplications = 50
	DefaultMinDelaySeconds = 3
	DefaultTimeoutSeconds  = 10
	DefaultReportFile      = "application_report.json"
)

// Config represents the CLI configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or come from
// CLI flags.
type Config struct {
	// Search criteria
	Keywords string `json:"keywords,omitempty"`
	Location string `json:"location,omitempty"`

	// Run limits
	MaxApplications int     `json:"max_applications,omitempty" validate:"gte=0"`
	MinDelaySeconds float64 `json:"min_delay_seconds,omitempty" validate:"gte=0"`

	// Output
	ReportFile string `json:"report_file,omitempty"`
	HistoryDB  string `json:"history_db,omitempty"`

	// Behavior
	Headless       bool `json:"headless,omitempty"`
	TimeoutSeconds int  `json:"timeout_seconds,omitempty" validate:"gte=0"` // per browser action
	Verbose        bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero-valued fields with the package defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxApplications == 0 {
		c.MaxApplications = DefaultMaxApplications
	}
	if c.MinDelaySeconds == 0 {
		c.MinDelaySeconds = DefaultMinDelaySeconds
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.ReportFile == "" {
		c.ReportFile = DefaultReportFile
	}
}
