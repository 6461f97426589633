// Package history persists summaries of past comparison runs in the
// user's config directory.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/sdejongh/difflex/pkg/models"
)

const (
	storeVersion = 1

	// DefaultLimit is the number of runs retained per store
	DefaultLimit = 50
)

// Entry summarizes one past comparison run
type Entry struct {
	// ID is the run identifier
	ID string `json:"id"`

	// Roots are the compared paths, in display order
	Roots []string `json:"roots"`

	// DirectoryMode records whether trees or single files were compared
	DirectoryMode bool `json:"directory_mode"`

	// ComparedAt is when the run finished
	ComparedAt time.Time `json:"compared_at"`

	// Duration is the wall-clock run time
	Duration time.Duration `json:"duration"`

	// Stats holds the run statistics
	Stats models.Statistics `json:"stats"`

	// Status is the overall run result
	Status models.RunStatus `json:"status"`

	// Fingerprint identifies the ordered root set; reruns over the
	// same roots replace the previous entry
	Fingerprint uint64 `json:"fingerprint"`
}

// Store holds run history, newest first. A Store is not safe for
// concurrent use.
type Store struct {
	path    string
	limit   int
	entries []*Entry
}

// storeFile is the on-disk layout
type storeFile struct {
	Version int      `json:"version"`
	Entries []*Entry `json:"entries"`
}

// NewStore creates an empty store writing to path, keeping at most
// limit runs. A limit below 1 falls back to DefaultLimit.
func NewStore(path string, limit int) *Store {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Store{path: path, limit: limit}
}

// DefaultPath returns the default history file path
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to get config directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "difflex", "history.json"), nil
}

// Load reads the store from path. A missing file yields an empty
// store rather than an error.
func Load(path string, limit int) (*Store, error) {
	store := NewStore(path, limit)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if file.Version > storeVersion {
		return nil, fmt.Errorf("history file version %d is newer than supported version %d", file.Version, storeVersion)
	}

	store.entries = file.Entries
	store.truncate()
	return store, nil
}

// Fingerprint hashes an ordered root set. Order matters: comparing
// A,B is a different run than B,A.
func Fingerprint(roots []string) uint64 {
	h := xxhash.New()
	for _, root := range roots {
		h.WriteString(filepath.Clean(root))
		h.WriteString("\x00")
	}
	return h.Sum64()
}

// Record builds an entry from a finished report and adds it
func (s *Store) Record(report *models.Report) *Entry {
	entry := &Entry{
		ID:            report.RunID,
		Roots:         report.Roots,
		DirectoryMode: report.DirectoryMode,
		ComparedAt:    report.EndTime,
		Duration:      report.Duration,
		Stats:         report.Stats,
		Status:        report.Status,
		Fingerprint:   Fingerprint(report.Roots),
	}
	s.Add(entry)
	return entry
}

// Add inserts an entry at the front. A previous run over the same
// root set is replaced, and the store is truncated to its limit.
func (s *Store) Add(entry *Entry) {
	kept := make([]*Entry, 0, len(s.entries)+1)
	kept = append(kept, entry)
	for _, e := range s.entries {
		if e.Fingerprint == entry.Fingerprint {
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	s.truncate()
}

// List returns up to n entries, newest first. n <= 0 returns all.
func (s *Store) List(n int) []*Entry {
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]*Entry, n)
	copy(out, s.entries[:n])
	return out
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Clear removes all entries
func (s *Store) Clear() {
	s.entries = nil
}

// Save persists the store atomically via a temp file rename
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(storeFile{
		Version: storeVersion,
		Entries: s.entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize history file: %w", err)
	}

	return nil
}

func (s *Store) truncate() {
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
}
