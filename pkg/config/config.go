package config

import (
	"github.com/sdejongh/difflex/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Classify    ClassifyConfig    `yaml:"classify"`
	Exclude     []string          `yaml:"exclude"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	History     HistoryConfig     `yaml:"history"`
}

// CompareConfig holds the per-category similarity thresholds, in
// percent. A pair at or above its category threshold is similar.
type CompareConfig struct {
	TextThreshold   float64 `yaml:"text_threshold"`
	ImageThreshold  float64 `yaml:"image_threshold"`
	BinaryThreshold float64 `yaml:"binary_threshold"`
}

// ClassifyConfig holds the newline-separated extension sets that route
// files to comparators. Empty values keep the built-in sets.
type ClassifyConfig struct {
	TextExtensions  string `yaml:"text_extensions"`
	ImageExtensions string `yaml:"image_extensions"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show the progress bar
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
	Color    bool   `yaml:"color"`    // Colorize human output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`  // Store file path (empty = default)
	Limit   int    `yaml:"limit"` // Retained runs
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			TextThreshold:   95,
			ImageThreshold:  99,
			BinaryThreshold: 100,
		},
		Classify: ClassifyConfig{
			TextExtensions:  "",
			ImageExtensions: "",
		},
		Exclude: []string{
			"*.tmp",
			".git/",
			"node_modules/",
		},
		Performance: PerformanceConfig{
			MaxWorkers: 4,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
			Color:    true,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "",
			Limit:   50,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	thresholds := []struct {
		field string
		value float64
	}{
		{"compare.text_threshold", c.Compare.TextThreshold},
		{"compare.image_threshold", c.Compare.ImageThreshold},
		{"compare.binary_threshold", c.Compare.BinaryThreshold},
	}
	for _, t := range thresholds {
		if t.value < 0 || t.value > 100 {
			return &models.ValidationError{
				Field:   t.field,
				Message: "must be between 0 and 100",
			}
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.History.Limit < 1 {
		return &models.ValidationError{
			Field:   "history.limit",
			Message: "must be at least 1",
		}
	}

	return nil
}
