package models

import "fmt"

// Status is the four-way classification of a compared pair
type Status string

const (
	// StatusIdentical indicates byte-for-byte (or decoded-content) equality
	StatusIdentical Status = "identical"
	// StatusSimilar indicates content above the similarity threshold
	StatusSimilar Status = "similar"
	// StatusSimilarMeta indicates identical payload with differing metadata
	StatusSimilarMeta Status = "similar-metadata"
	// StatusDifferent indicates content below the similarity threshold
	StatusDifferent Status = "different"
)

// Symbol returns the canonical display symbol for the status
func (s Status) Symbol() string {
	switch s {
	case StatusIdentical:
		return "="
	case StatusSimilar:
		return "≒"
	case StatusSimilarMeta:
		return "≒EX"
	case StatusDifferent:
		return "≠"
	default:
		return "?"
	}
}

// Outcome is the result of comparing one pair of files.
// It is created once by a comparator and never mutated; Identical
// always carries Similarity == 100.
type Outcome struct {
	// Status is the four-way classification
	Status Status `json:"status"`

	// Similarity is a percentage in [0,100]
	Similarity float64 `json:"similarity"`

	// Details is an optional human-readable explanation
	Details string `json:"details,omitempty"`
}

// String renders the outcome the way result cells are displayed:
// the status symbol, with the similarity percentage for the two
// similar states.
func (o *Outcome) String() string {
	switch o.Status {
	case StatusSimilar, StatusSimilarMeta:
		return fmt.Sprintf("%s (%.1f%%)", o.Status.Symbol(), o.Similarity)
	default:
		return o.Status.Symbol()
	}
}
