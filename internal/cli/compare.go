package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sdejongh/difflex/pkg/config"
	"github.com/sdejongh/difflex/pkg/engine"
	"github.com/sdejongh/difflex/pkg/logging"
	"github.com/sdejongh/difflex/pkg/models"
	"github.com/sdejongh/difflex/pkg/output"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	TextThreshold   float64
	ImageThreshold  float64
	BinaryThreshold float64
	Exclude         []string
	Parallel        int
	Output          string
	NoProgress      bool
	NoHistory       bool
	TextExtFile     string
	ImageExtFile    string
	ReportFile      string
	ReportFormat    string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare PATH1 PATH2 [PATH3]",
		Short: "Compare two or three files or directories",
		Long: `Compare two or three paths and classify each consecutive pair as
identical, similar, similar apart from metadata, or different.
Directories are walked and aligned by relative path; files are
compared directly. All paths must be of the same kind.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: runCompare,
	}

	cmd.Flags().Float64Var(&compareFlags.TextThreshold, "text-threshold", 95, "similarity percentage above which text content counts as similar")
	cmd.Flags().Float64Var(&compareFlags.ImageThreshold, "image-threshold", 99, "similarity percentage above which image pixels count as similar")
	cmd.Flags().Float64Var(&compareFlags.BinaryThreshold, "binary-threshold", 100, "similarity percentage above which binary content counts as similar")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().IntVarP(&compareFlags.Parallel, "parallel", "p", 0, "number of parallel workers (default: 4)")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&compareFlags.NoProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().BoolVar(&compareFlags.NoHistory, "no-history", false, "don't record this run in the history")
	cmd.Flags().StringVar(&compareFlags.TextExtFile, "text-extensions-file", "", "newline-separated file of extensions treated as text")
	cmd.Flags().StringVar(&compareFlags.ImageExtFile, "image-extensions-file", "", "newline-separated file of extensions treated as images")
	cmd.Flags().StringVar(&compareFlags.ReportFile, "report-file", "", "write a report of notable entries to file")
	cmd.Flags().StringVar(&compareFlags.ReportFormat, "report-format", "human", "report file format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&compareFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&compareFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&compareFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	paths, directoryMode, err := validateComparePaths(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cmd, cfg)

	request, err := buildRequest(cfg, paths, directoryMode)
	if err != nil {
		return err
	}

	formatter, err := createFormatter(cfg)
	if err != nil {
		return err
	}

	// Keep notable entries around when a report file was requested
	var events output.Formatter = formatter
	var recorder *output.Recorder
	if compareFlags.ReportFile != "" {
		recorder = output.NewRecorder(formatter)
		events = recorder
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	eng, err := engine.New(request, events, logger)
	if err != nil {
		return err
	}

	if err := events.Start(request); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	report, runErr := eng.Run(ctx)
	if report == nil {
		return runErr
	}

	if err := events.Complete(report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if recorder != nil {
		if err := output.WriteReportFile(report, recorder.Results(), compareFlags.ReportFile, compareFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		logger.Close()
		os.Exit(report.Status.ExitCode())
	}

	// Failed runs never reach the history
	if cfg.History.Enabled && !compareFlags.NoHistory {
		if err := recordHistory(cfg, report); err != nil {
			logger.Warn(ctx, "Failed to record history", logging.Fields{"error": err.Error()})
		}
	}

	logger.Close()
	os.Exit(report.Status.ExitCode())
	return nil
}

// createFormatter builds the output stack: the configured formatter,
// wrapped with a progress bar when stdout is an interactive terminal
func createFormatter(cfg *config.Config) (output.Formatter, error) {
	formatter, err := output.New(cfg.Output.Format, os.Stdout, cfg.Output.Color, cfg.Output.Quiet)
	if err != nil {
		return nil, err
	}

	if cfg.Output.Format == "human" && cfg.Output.Progress && term.IsTerminal(int(os.Stdout.Fd())) {
		return output.NewProgressFormatter(formatter, os.Stderr), nil
	}
	return formatter, nil
}

// recordHistory appends the run to the recent-comparisons store
func recordHistory(cfg *config.Config, report *models.Report) error {
	store, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	store.Record(report)
	return store.Save()
}
