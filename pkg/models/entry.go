package models

import (
	"time"
)

// Location is one root's view of an aligned path
type Location struct {
	// Path is the absolute path under the root
	Path string `json:"path"`

	// Size in bytes (zero for directories)
	Size int64 `json:"size"`

	// ModTime is the last modification time
	ModTime time.Time `json:"mod_time"`

	// IsDir indicates if the path is a directory under this root
	IsDir bool `json:"is_dir"`
}

// AlignedEntry represents one logical path reconciled across all
// compared roots. Locations has exactly one slot per root, in root
// order; a nil slot means the path does not exist under that root.
// Entries are built once by the aligner and never mutated afterward.
type AlignedEntry struct {
	// RelPath is the slash-separated path relative to each root
	RelPath string `json:"rel_path"`

	// IsDir is true if the path is a directory under any root that
	// has it. Per-root Location.IsDir stays available for callers
	// that need to detect file/directory type mismatches.
	IsDir bool `json:"is_dir"`

	// Locations holds one optional location per root
	Locations []*Location `json:"locations"`
}

// Exists reports whether the entry is present under root i
func (e *AlignedEntry) Exists(i int) bool {
	return i >= 0 && i < len(e.Locations) && e.Locations[i] != nil
}

// ExistingCount returns the number of roots containing the entry
func (e *AlignedEntry) ExistingCount() int {
	n := 0
	for _, loc := range e.Locations {
		if loc != nil {
			n++
		}
	}
	return n
}

// Pairs returns the number of consecutive pairs the entry yields
func (e *AlignedEntry) Pairs() int {
	if len(e.Locations) < 2 {
		return 0
	}
	return len(e.Locations) - 1
}

// EntryResult pairs an aligned entry with its consecutive-pair
// outcomes. Outcomes[i] covers roots (i, i+1); a nil slot means the
// pair was not compared (missing side or directory).
type EntryResult struct {
	Entry    *AlignedEntry `json:"entry"`
	Outcomes []*Outcome    `json:"outcomes"`
}

// HasDifference reports whether any computed outcome is Different
func (r *EntryResult) HasDifference() bool {
	for _, o := range r.Outcomes {
		if o != nil && o.Status == StatusDifferent {
			return true
		}
	}
	return false
}
