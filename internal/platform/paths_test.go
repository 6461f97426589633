package platform

import (
	"runtime"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("separator handling differs on windows")
	}

	tests := []struct {
		path string
		want string
	}{
		{"/a/b/../c", "/a/c"},
		{"a//b", "a/b"},
		{"./a", "a"},
		{"/a/b/", "/a/b"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.path); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath(""); err == nil {
		t.Error("ValidatePath(\"\") expected an error")
	}
	if err := ValidatePath("/some/path"); err != nil {
		t.Errorf("ValidatePath(/some/path) error = %v", err)
	}
}

func TestPathError(t *testing.T) {
	err := &PathError{Path: "x", Message: "path is empty"}
	want := "invalid path 'x': path is empty"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
