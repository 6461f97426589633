// Package align walks 2 or 3 directory roots and reconciles their
// contents into one ordered collection of aligned entries keyed by
// relative path.
package align

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/difflex/pkg/models"
)

// Aligner merges per-root directory listings into aligned entries.
// It performs no comparison: entries are handed to the dispatcher
// afterward.
type Aligner struct {
	exclude []string
}

// NewAligner creates an aligner. Exclude patterns filter walked paths;
// an excluded directory is skipped with its whole subtree.
func NewAligner(exclude []string) *Aligner {
	return &Aligner{exclude: exclude}
}

// Align walks every root fully and concurrently, then merges the
// listings into one entry per relative path with a fixed-size location
// slot per root. Entries are sorted lexicographically by relative
// path, directories and files interleaved. An unreadable root or
// subtree fails the whole run: alignment is a precondition, not a
// per-entry failure.
func (a *Aligner) Align(ctx context.Context, roots []string) ([]*models.AlignedEntry, error) {
	if len(roots) < 2 || len(roots) > 3 {
		return nil, fmt.Errorf("align: 2 or 3 roots required, got %d", len(roots))
	}

	listings := make([]map[string]*models.Location, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			listing, err := a.scanRoot(gctx, root)
			if err != nil {
				return fmt.Errorf("failed to scan root %s: %w", root, err)
			}
			listings[i] = listing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]*models.AlignedEntry)
	for i, listing := range listings {
		for relPath, loc := range listing {
			entry, ok := merged[relPath]
			if !ok {
				entry = &models.AlignedEntry{
					RelPath:   relPath,
					Locations: make([]*models.Location, len(roots)),
				}
				merged[relPath] = entry
			}
			entry.Locations[i] = loc
			// A path that is a directory under any root renders as a
			// directory; per-root flags keep the mismatch visible.
			if loc.IsDir {
				entry.IsDir = true
			}
		}
	}

	entries := make([]*models.AlignedEntry, 0, len(merged))
	for _, entry := range merged {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})

	return entries, nil
}

// scanRoot records every file and directory under root, keyed by
// slash-separated relative path. The root itself is not recorded.
func (a *Aligner) scanRoot(ctx context.Context, root string) (map[string]*models.Location, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	listing := make(map[string]*models.Location)

	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if shouldExclude(relPath, a.exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		loc := &models.Location{
			Path:    p,
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		}
		if !loc.IsDir {
			loc.Size = info.Size()
		}
		listing[relPath] = loc

		return nil
	})
	if err != nil {
		return nil, err
	}

	return listing, nil
}
