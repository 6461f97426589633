package compare

import (
	"context"

	"github.com/sdejongh/difflex/pkg/classify"
	"github.com/sdejongh/difflex/pkg/models"
)

// Dispatcher routes pairs to the comparator matching their category
// and applies the consecutive-pair policy: for N ordered paths only
// (0,1) and, with three paths, (1,2) are compared — never (0,2).
type Dispatcher struct {
	classifier *classify.Classifier

	text   *TextComparator
	image  *ImageComparator
	binary *BinaryComparator

	textThreshold   float64
	imageThreshold  float64
	binaryThreshold float64
}

// NewDispatcher creates a dispatcher using the given classifier and
// per-category similarity thresholds.
func NewDispatcher(classifier *classify.Classifier, textThreshold, imageThreshold, binaryThreshold float64) *Dispatcher {
	return &Dispatcher{
		classifier:      classifier,
		text:            NewTextComparator(),
		image:           NewImageComparator(),
		binary:          NewBinaryComparator(),
		textThreshold:   textThreshold,
		imageThreshold:  imageThreshold,
		binaryThreshold: binaryThreshold,
	}
}

// CompareEntry compares the consecutive location pairs of an aligned
// entry. The category is classified once, from the first existing
// location. A pair whose side is absent or is a directory keeps a nil
// outcome slot; no comparator is invoked for it.
func (d *Dispatcher) CompareEntry(ctx context.Context, entry *models.AlignedEntry) []*models.Outcome {
	outcomes := make([]*models.Outcome, entry.Pairs())

	category := models.CategoryBinary
	for _, loc := range entry.Locations {
		if loc != nil {
			category = d.classifier.Classify(loc.Path)
			break
		}
	}

	for i := 0; i < entry.Pairs(); i++ {
		a, b := entry.Locations[i], entry.Locations[i+1]
		if a == nil || b == nil || a.IsDir || b.IsDir {
			continue
		}
		outcomes[i] = d.compare(ctx, category, a.Path, b.Path)
	}
	return outcomes
}

// ComparePaths compares 2 or 3 explicit file paths pairwise. The
// category comes from the first path.
func (d *Dispatcher) ComparePaths(ctx context.Context, paths []string) []*models.Outcome {
	if len(paths) < 2 {
		return nil
	}
	category := d.classifier.Classify(paths[0])

	outcomes := make([]*models.Outcome, len(paths)-1)
	for i := 0; i+1 < len(paths); i++ {
		outcomes[i] = d.compare(ctx, category, paths[i], paths[i+1])
	}
	return outcomes
}

func (d *Dispatcher) compare(ctx context.Context, category models.FileCategory, pathA, pathB string) *models.Outcome {
	switch category {
	case models.CategoryText:
		return d.text.Compare(ctx, pathA, pathB, d.textThreshold)
	case models.CategoryImage:
		return d.image.Compare(ctx, pathA, pathB, d.imageThreshold)
	default:
		return d.binary.Compare(ctx, pathA, pathB, d.binaryThreshold)
	}
}
