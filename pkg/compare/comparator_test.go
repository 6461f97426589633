package compare

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/difflex/pkg/models"
)

// TestHelper provides utilities for comparator tests
type TestHelper struct {
	t     *testing.T
	Roots []string
}

// NewTestHelper creates a test helper backed by temporary root
// directories, cleaned up with the test.
func NewTestHelper(t *testing.T, rootCount int) *TestHelper {
	t.Helper()

	h := &TestHelper{t: t}
	for i := 0; i < rootCount; i++ {
		h.Roots = append(h.Roots, t.TempDir())
	}
	return h
}

// CreateFile writes a file under the given root and returns its path
func (h *TestHelper) CreateFile(root int, relPath string, content []byte) string {
	h.t.Helper()

	path := filepath.Join(h.Roots[root], filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
	return path
}

// CreateDir creates a directory under the given root and returns its path
func (h *TestHelper) CreateDir(root int, relPath string) string {
	h.t.Helper()

	path := filepath.Join(h.Roots[root], filepath.FromSlash(relPath))
	if err := os.MkdirAll(path, 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
	return path
}

// assertOutcome checks the classification and details of an outcome
func assertOutcome(t *testing.T, got *models.Outcome, status models.Status, details string) {
	t.Helper()

	if got == nil {
		t.Fatal("outcome is nil")
	}
	if got.Status != status {
		t.Errorf("Status = %s, want %s", got.Status, status)
	}
	if got.Details != details {
		t.Errorf("Details = %q, want %q", got.Details, details)
	}
}

func TestComparatorNames(t *testing.T) {
	comparators := []Comparator{
		NewTextComparator(),
		NewImageComparator(),
		NewBinaryComparator(),
	}
	want := []string{"text", "image", "binary"}

	for i, c := range comparators {
		if c.Name() != want[i] {
			t.Errorf("Name() = %s, want %s", c.Name(), want[i])
		}
	}
}

func TestErrorOutcome(t *testing.T) {
	o := errorOutcome(os.ErrNotExist)

	if o.Status != models.StatusDifferent {
		t.Errorf("Status = %s, want different", o.Status)
	}
	if o.Similarity != 0 {
		t.Errorf("Similarity = %f, want 0", o.Similarity)
	}
	if !strings.HasPrefix(o.Details, "Error: ") {
		t.Errorf("Details = %q, want Error: prefix", o.Details)
	}
}
