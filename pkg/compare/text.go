package compare

import (
	"context"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/sdejongh/difflex/pkg/models"
)

// TextComparator compares text files. Content is decoded through an
// encoding fallback chain, checked for exact equality, then for
// equality modulo line endings and trailing whitespace, and finally
// scored with a character-level matching-blocks ratio.
type TextComparator struct{}

// NewTextComparator creates a text comparator
func NewTextComparator() *TextComparator {
	return &TextComparator{}
}

// Compare compares two text files
func (c *TextComparator) Compare(ctx context.Context, pathA, pathB string, threshold float64) *models.Outcome {
	dataA, err := os.ReadFile(pathA)
	if err != nil {
		return errorOutcome(err)
	}
	dataB, err := os.ReadFile(pathB)
	if err != nil {
		return errorOutcome(err)
	}

	textA, ok := decodeText(dataA)
	if !ok {
		return &models.Outcome{Status: models.StatusDifferent, Similarity: 0, Details: "Cannot decode file1"}
	}
	textB, ok := decodeText(dataB)
	if !ok {
		return &models.Outcome{Status: models.StatusDifferent, Similarity: 0, Details: "Cannot decode file2"}
	}

	if textA == textB {
		return identicalOutcome()
	}

	normA := NormalizeText(textA)
	normB := NormalizeText(textB)

	if normA == normB {
		return &models.Outcome{
			Status:     models.StatusSimilar,
			Similarity: 100,
			Details:    "Whitespace/newline differences only",
		}
	}

	similarity := matchingRatio(normA, normB) * 100

	if similarity >= threshold {
		return &models.Outcome{Status: models.StatusSimilar, Similarity: similarity, Details: "Content mostly similar"}
	}
	return &models.Outcome{Status: models.StatusDifferent, Similarity: similarity, Details: "Content differs significantly"}
}

// Name returns the comparator name
func (c *TextComparator) Name() string {
	return "text"
}

// NormalizeText unifies all line-ending styles to \n and strips
// trailing whitespace from every line.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// matchingRatio computes 2·M/T over two strings, where M is the total
// rune length of the matching blocks between them and T the sum of
// their rune lengths. Equal strings score 1, disjoint strings 0.
func matchingRatio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)

	matched := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}

	return 2 * float64(matched) / float64(total)
}
