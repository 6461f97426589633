package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/difflex/internal/platform"
	"github.com/sdejongh/difflex/pkg/config"
	"github.com/sdejongh/difflex/pkg/logging"
	"github.com/sdejongh/difflex/pkg/models"
)

// validateComparePaths checks the positional paths and infers the
// comparison mode: directories only or files only, never a mix.
func validateComparePaths(args []string) ([]string, bool, error) {
	paths := make([]string, len(args))
	seen := make(map[string]bool)
	dirs := 0

	for i, arg := range args {
		if err := platform.ValidatePath(arg); err != nil {
			return nil, false, err
		}
		path := platform.NormalizePath(arg)

		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, false, fmt.Errorf("path does not exist: %s", path)
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		if seen[abs] {
			return nil, false, fmt.Errorf("a path cannot be compared with itself: %s", abs)
		}
		seen[abs] = true

		if info.IsDir() {
			dirs++
		}
		paths[i] = path
	}

	switch dirs {
	case 0:
		return paths, false, nil
	case len(paths):
		return paths, true, nil
	default:
		return nil, false, fmt.Errorf("cannot mix files and directories: %d of %d paths are directories", dirs, len(paths))
	}
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Thresholds share their defaults with the config file, so only an
	// explicit flag wins
	if flags.Changed("text-threshold") {
		cfg.Compare.TextThreshold = compareFlags.TextThreshold
	}
	if flags.Changed("image-threshold") {
		cfg.Compare.ImageThreshold = compareFlags.ImageThreshold
	}
	if flags.Changed("binary-threshold") {
		cfg.Compare.BinaryThreshold = compareFlags.BinaryThreshold
	}

	if len(compareFlags.Exclude) > 0 {
		cfg.Exclude = compareFlags.Exclude
	}

	if compareFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = compareFlags.Parallel
	}

	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}

	if compareFlags.NoProgress {
		cfg.Output.Progress = false
	}

	if compareFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = compareFlags.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = compareFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = compareFlags.LogLevel
	}

	// Verbose turns on debug logging to stderr; quiet wins when both
	// are given
	if globalFlags.Verbose {
		cfg.Logging.Enabled = true
		if !flags.Changed("log-level") {
			cfg.Logging.Level = "debug"
		}
	}
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// buildRequest creates a comparison request from configuration
func buildRequest(cfg *config.Config, paths []string, directoryMode bool) (*models.Request, error) {
	request := &models.Request{
		ID:              uuid.New().String(),
		Roots:           paths,
		DirectoryMode:   directoryMode,
		TextThreshold:   cfg.Compare.TextThreshold,
		ImageThreshold:  cfg.Compare.ImageThreshold,
		BinaryThreshold: cfg.Compare.BinaryThreshold,
		TextExtensions:  cfg.Classify.TextExtensions,
		ImageExtensions: cfg.Classify.ImageExtensions,
		Exclude:         cfg.Exclude,
		MaxWorkers:      cfg.Performance.MaxWorkers,
	}

	if compareFlags.TextExtFile != "" {
		data, err := os.ReadFile(compareFlags.TextExtFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read text extensions file: %w", err)
		}
		request.TextExtensions = string(data)
	}
	if compareFlags.ImageExtFile != "" {
		data, err := os.ReadFile(compareFlags.ImageExtFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read image extensions file: %w", err)
		}
		request.ImageExtensions = string(data)
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	return request, nil
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch cfg.Logging.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}
	level := logging.ParseLevel(cfg.Logging.Level)

	// No file configured: log to stderr so output stays parseable
	if cfg.Logging.File == "" {
		return logging.NewWriterLogger(os.Stderr, format, level), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Format:     format,
		Level:      level,
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
