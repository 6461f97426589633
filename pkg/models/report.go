package models

import (
	"time"
)

// Report summarizes one comparison run
type Report struct {
	// Run details
	RunID         string   `json:"run_id"`
	Roots         []string `json:"roots"`
	DirectoryMode bool     `json:"directory_mode"`

	// Timing
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	// Statistics
	Stats Statistics `json:"stats"`

	// Overall status
	Status RunStatus `json:"status"`
}

// Statistics holds comparison run metrics
type Statistics struct {
	// Entries aligned across the roots (files and directories)
	EntriesAligned int `json:"entries_aligned"`
	DirsAligned    int `json:"dirs_aligned"`

	// Files for which at least one pair was compared
	FilesCompared int `json:"files_compared"`

	// Consecutive pairs compared / skipped (missing side or directory)
	PairsCompared int `json:"pairs_compared"`
	PairsSkipped  int `json:"pairs_skipped"`

	// Pair outcomes by status
	Identical   int `json:"identical"`
	Similar     int `json:"similar"`
	SimilarMeta int `json:"similar_metadata"`
	Different   int `json:"different"`

	// Data volume
	BytesScanned int64 `json:"bytes_scanned"`
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusClean indicates the run completed with no differing pair
	StatusClean RunStatus = "clean"
	// StatusDifferences indicates the run completed and found differences
	StatusDifferences RunStatus = "differences"
	// StatusFailed indicates the run could not complete
	StatusFailed RunStatus = "failed"
	// StatusCancelled indicates the run was stopped on request
	StatusCancelled RunStatus = "cancelled"
)

// ExitCode returns the process exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusClean:
		return 0
	case StatusDifferences:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
