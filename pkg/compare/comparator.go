// Package compare implements the category-specific pair comparators
// (text, image, binary) and the consecutive-pair dispatcher.
package compare

import (
	"context"
	"fmt"

	"github.com/sdejongh/difflex/pkg/models"
)

// Comparator defines the interface for pairwise file comparison.
// A comparator never fails: every error (unreadable file, undecodable
// content, corrupt image) is folded locally into a Different outcome
// with similarity 0 and the cause in Details, so one bad pair cannot
// abort a run. Cancellation is honored by the engine between entries,
// never inside a comparator call.
type Comparator interface {
	// Compare compares two files and classifies the pair. The
	// threshold is the similarity percentage at or above which
	// non-equal content still counts as similar.
	Compare(ctx context.Context, pathA, pathB string, threshold float64) *models.Outcome

	// Name returns the name of the comparison method
	Name() string
}

// errorOutcome converts a local failure into the recovered form every
// comparator returns for it.
func errorOutcome(err error) *models.Outcome {
	return &models.Outcome{
		Status:     models.StatusDifferent,
		Similarity: 0,
		Details:    fmt.Sprintf("Error: %v", err),
	}
}

func identicalOutcome() *models.Outcome {
	return &models.Outcome{Status: models.StatusIdentical, Similarity: 100}
}
