package align

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/sdejongh/difflex/pkg/models"
)

// TestHelper provides utilities for aligner tests
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

// CreateFile writes a file under the given root
func (h *TestHelper) CreateFile(root int, relPath, content string) {
	h.t.Helper()

	path := filepath.Join(h.Roots[root], filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
}

// CreateDir creates a directory under the given root
func (h *TestHelper) CreateDir(root int, relPath string) {
	h.t.Helper()

	path := filepath.Join(h.Roots[root], filepath.FromSlash(relPath))
	if err := os.MkdirAll(path, 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
}

// findEntry returns the aligned entry for relPath, or nil
func findEntry(entries []*models.AlignedEntry, relPath string) *models.AlignedEntry {
	for _, e := range entries {
		if e.RelPath == relPath {
			return e
		}
	}
	return nil
}

func relPaths(entries []*models.AlignedEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.RelPath
	}
	return paths
}

func TestAlignTwoRoots(t *testing.T) {
	h := NewTestHelper(t, 2)
	h.CreateFile(0, "common.txt", "shared")
	h.CreateFile(1, "common.txt", "shared")
	h.CreateFile(0, "only_left.txt", "left")
	h.CreateFile(1, "only_right.txt", "right")

	entries, err := NewAligner(nil).Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	want := []string{"common.txt", "only_left.txt", "only_right.txt"}
	got := relPaths(entries)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	common := findEntry(entries, "common.txt")
	if common.Locations[0] == nil || common.Locations[1] == nil {
		t.Error("common.txt should be present in both roots")
	}

	left := findEntry(entries, "only_left.txt")
	if left.Locations[0] == nil || left.Locations[1] != nil {
		t.Errorf("only_left.txt locations = %v, want [set nil]", left.Locations)
	}

	right := findEntry(entries, "only_right.txt")
	if right.Locations[0] != nil || right.Locations[1] == nil {
		t.Errorf("only_right.txt locations = %v, want [nil set]", right.Locations)
	}
}

func TestAlignThreeRootsMissingMiddle(t *testing.T) {
	h := NewTestHelper(t, 3)
	h.CreateFile(0, "data.txt", "payload")
	h.CreateFile(2, "data.txt", "payload")

	entries, err := NewAligner(nil).Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	e := entries[0]
	if len(e.Locations) != 3 {
		t.Fatalf("len(Locations) = %d, want 3", len(e.Locations))
	}
	if e.Locations[0] == nil || e.Locations[1] != nil || e.Locations[2] == nil {
		t.Errorf("Locations = %v, want [set nil set]", e.Locations)
	}
	if e.ExistingCount() != 2 {
		t.Errorf("ExistingCount() = %d, want 2", e.ExistingCount())
	}
}

func TestAlignUnionIsExact(t *testing.T) {
	h := NewTestHelper(t, 2)
	names := []string{"a.txt", "b.txt", "sub/c.txt", "sub/deep/d.txt"}
	for i, name := range names {
		h.CreateFile(i%2, name, name)
	}

	entries, err := NewAligner(nil).Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	seen := make(map[string]int)
	for _, e := range entries {
		seen[e.RelPath]++
	}
	for path, count := range seen {
		if count != 1 {
			t.Errorf("path %s appears %d times, want 1", path, count)
		}
	}
	// Files plus the directories that carry them.
	for _, want := range append(names, "sub", "sub/deep") {
		if seen[want] != 1 {
			t.Errorf("path %s missing from aligned entries", want)
		}
	}
	if len(entries) != len(names)+2 {
		t.Errorf("len(entries) = %d, want %d", len(entries), len(names)+2)
	}
}

func TestAlignIncludesDirectories(t *testing.T) {
	h := NewTestHelper(t, 2)
	h.CreateFile(0, "docs/readme.md", "hello")
	h.CreateDir(1, "docs")

	entries, err := NewAligner(nil).Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	docs := findEntry(entries, "docs")
	if docs == nil {
		t.Fatal("docs directory not aligned")
	}
	if !docs.IsDir {
		t.Error("IsDir = false, want true")
	}
	if docs.Locations[0] == nil || docs.Locations[1] == nil {
		t.Error("docs should be present in both roots")
	}

	readme := findEntry(entries, "docs/readme.md")
	if readme == nil {
		t.Fatal("docs/readme.md not aligned")
	}
	if readme.Locations[0] == nil || readme.Locations[1] != nil {
		t.Errorf("readme locations = %v, want [set nil]", readme.Locations)
	}
}

func TestAlignFileDirectoryMismatch(t *testing.T) {
	h := NewTestHelper(t, 2)
	h.CreateFile(0, "thing", "i am a file")
	h.CreateDir(1, "thing")

	entries, err := NewAligner(nil).Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	thing := findEntry(entries, "thing")
	if thing == nil {
		t.Fatal("thing not aligned")
	}
	if !thing.IsDir {
		t.Error("IsDir = false, want true when any root has a directory")
	}
	if thing.Locations[0].IsDir {
		t.Error("Locations[0].IsDir = true, want false")
	}
	if !thing.Locations[1].IsDir {
		t.Error("Locations[1].IsDir = false, want true")
	}
}

func TestAlignSortedOrder(t *testing.T) {
	h := NewTestHelper(t, 2)
	h.CreateFile(0, "z.txt", "z")
	h.CreateFile(0, "a/b.txt", "b")
	h.CreateFile(1, "a.txt", "a")
	h.CreateFile(1, "m.txt", "m")

	entries, err := NewAligner(nil).Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	got := relPaths(entries)
	if !sort.StringsAreSorted(got) {
		t.Errorf("entries not sorted: %v", got)
	}
	want := []string{"a", "a.txt", "a/b.txt", "m.txt", "z.txt"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAlignLocationMetadata(t *testing.T) {
	h := NewTestHelper(t, 2)
	h.CreateFile(0, "data.bin", "12345")
	h.CreateFile(1, "data.bin", "12345678")
	h.CreateDir(0, "sub")
	h.CreateDir(1, "sub")

	entries, err := NewAligner(nil).Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	data := findEntry(entries, "data.bin")
	if data.Locations[0].Size != 5 {
		t.Errorf("Locations[0].Size = %d, want 5", data.Locations[0].Size)
	}
	if data.Locations[1].Size != 8 {
		t.Errorf("Locations[1].Size = %d, want 8", data.Locations[1].Size)
	}
	if data.Locations[0].ModTime.IsZero() {
		t.Error("ModTime should be populated")
	}
	wantPath := filepath.Join(h.Roots[0], "data.bin")
	if data.Locations[0].Path != wantPath {
		t.Errorf("Locations[0].Path = %s, want %s", data.Locations[0].Path, wantPath)
	}

	sub := findEntry(entries, "sub")
	if sub.Locations[0].Size != 0 {
		t.Errorf("directory Size = %d, want 0", sub.Locations[0].Size)
	}
}

func TestAlignExcludePatterns(t *testing.T) {
	h := NewTestHelper(t, 2)
	h.CreateFile(0, "keep.txt", "keep")
	h.CreateFile(1, "keep.txt", "keep")
	h.CreateFile(0, "scratch.tmp", "drop")
	h.CreateFile(0, ".git/config", "drop")
	h.CreateFile(1, ".git/HEAD", "drop")
	h.CreateFile(0, "sub/cache.tmp", "drop")
	h.CreateFile(0, "sub/real.txt", "keep")

	aligner := NewAligner([]string{"*.tmp", ".git/"})
	entries, err := aligner.Align(context.Background(), h.Roots)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}

	want := []string{"keep.txt", "sub", "sub/real.txt"}
	got := relPaths(entries)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAlignRootCountValidation(t *testing.T) {
	h := NewTestHelper(t, 4)

	tests := []struct {
		name  string
		roots []string
	}{
		{"OneRoot", h.Roots[:1]},
		{"FourRoots", h.Roots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAligner(nil).Align(context.Background(), tt.roots); err == nil {
				t.Error("Align() error = nil, want root count error")
			}
		})
	}
}

func TestAlignUnreadableRootFailsRun(t *testing.T) {
	h := NewTestHelper(t, 1)
	h.CreateFile(0, "ok.txt", "ok")

	t.Run("MissingRoot", func(t *testing.T) {
		roots := []string{h.Roots[0], filepath.Join(h.Roots[0], "does-not-exist")}
		if _, err := NewAligner(nil).Align(context.Background(), roots); err == nil {
			t.Error("Align() error = nil, want scan failure")
		}
	})

	t.Run("RootIsFile", func(t *testing.T) {
		roots := []string{h.Roots[0], filepath.Join(h.Roots[0], "ok.txt")}
		if _, err := NewAligner(nil).Align(context.Background(), roots); err == nil {
			t.Error("Align() error = nil, want not-a-directory failure")
		}
	})
}

func TestAlignCancelledContext(t *testing.T) {
	h := NewTestHelper(t, 2)
	h.CreateFile(0, "a.txt", "a")
	h.CreateFile(1, "a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAligner(nil).Align(ctx, h.Roots)
	if err == nil {
		t.Fatal("Align() error = nil, want context error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
