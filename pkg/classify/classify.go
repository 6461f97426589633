// Package classify maps file paths to comparison categories based on
// their extension.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/sdejongh/difflex/pkg/models"
)

// DefaultTextExtensions is the built-in text extension set, one
// extension per line, lowercase, without leading dots.
const DefaultTextExtensions = `txt
py
java
c
cpp
h
hpp
cs
js
ts
html
css
xml
json
yaml
yml
md
rst
ini
cfg
conf
log
sh
bash
zsh
ps1
bat
cmd`

// DefaultImageExtensions is the built-in image extension set.
const DefaultImageExtensions = `jpg
jpeg
png
gif
bmp
tiff
tif
webp
ico
svg`

// Classifier detects file categories from extensions. Classification
// is pure string work on the path; no file is ever opened.
type Classifier struct {
	textExts  map[string]struct{}
	imageExts map[string]struct{}
}

// New creates a classifier from newline-separated extension lists.
// Empty input selects the built-in defaults for that set.
func New(textExtensions, imageExtensions string) *Classifier {
	c := &Classifier{}
	c.SetTextExtensions(textExtensions)
	c.SetImageExtensions(imageExtensions)
	return c
}

// Default creates a classifier with the built-in extension sets
func Default() *Classifier {
	return New(DefaultTextExtensions, DefaultImageExtensions)
}

// Classify returns the category for a path. Extensions are matched
// case-insensitively and without the leading dot; anything unmatched,
// including extension-less names and dotfiles, is binary.
func (c *Classifier) Classify(path string) models.FileCategory {
	ext := extensionOf(path)
	if _, ok := c.textExts[ext]; ok {
		return models.CategoryText
	}
	if _, ok := c.imageExts[ext]; ok {
		return models.CategoryImage
	}
	return models.CategoryBinary
}

// SetTextExtensions replaces the text extension set for subsequent
// calls. Already-produced categories are not revisited.
func (c *Classifier) SetTextExtensions(extensions string) {
	if strings.TrimSpace(extensions) == "" {
		extensions = DefaultTextExtensions
	}
	c.textExts = parseExtensions(extensions)
}

// SetImageExtensions replaces the image extension set for subsequent calls
func (c *Classifier) SetImageExtensions(extensions string) {
	if strings.TrimSpace(extensions) == "" {
		extensions = DefaultImageExtensions
	}
	c.imageExts = parseExtensions(extensions)
}

// extensionOf extracts the lowercase extension without its dot. A name
// whose only dot is the leading one (".gitignore") or trailing one
// ("file.") has no extension.
func extensionOf(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// parseExtensions reads the newline-separated wire format, tolerating
// blank lines, surrounding whitespace, stray leading dots and mixed case.
func parseExtensions(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(s, "\n") {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(line), "."))
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}
