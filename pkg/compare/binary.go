package compare

import (
	"bytes"
	"context"
	"os"

	"github.com/sdejongh/difflex/pkg/models"
)

// BinaryComparator compares files byte-by-byte at matching offsets.
// No normalization is applied: similarity is the share of positions
// holding equal bytes, with extra length on either side counting
// against the score.
type BinaryComparator struct{}

// NewBinaryComparator creates a binary comparator
func NewBinaryComparator() *BinaryComparator {
	return &BinaryComparator{}
}

// Compare compares two binary files
func (c *BinaryComparator) Compare(ctx context.Context, pathA, pathB string, threshold float64) *models.Outcome {
	dataA, err := os.ReadFile(pathA)
	if err != nil {
		return errorOutcome(err)
	}
	dataB, err := os.ReadFile(pathB)
	if err != nil {
		return errorOutcome(err)
	}

	// Also covers two empty files.
	if bytes.Equal(dataA, dataB) {
		return identicalOutcome()
	}

	if len(dataA) == 0 || len(dataB) == 0 {
		return &models.Outcome{Status: models.StatusDifferent, Similarity: 0, Details: "One file is empty"}
	}

	matching := 0
	for i := 0; i < min(len(dataA), len(dataB)); i++ {
		if dataA[i] == dataB[i] {
			matching++
		}
	}

	// The longer length in the denominator makes trailing extra bytes
	// depress the score.
	similarity := float64(matching) / float64(max(len(dataA), len(dataB))) * 100

	if similarity >= threshold {
		return &models.Outcome{Status: models.StatusSimilar, Similarity: similarity, Details: "Binary data mostly similar"}
	}
	return &models.Outcome{Status: models.StatusDifferent, Similarity: similarity, Details: "Binary data differs"}
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}
