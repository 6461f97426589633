package align

import (
	"path/filepath"
	"strings"
)

// shouldExclude checks if a relative path matches any exclude pattern.
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log (match the basename)
//   - Directory patterns: .git/, node_modules/ (match the directory at
//     any depth, including its whole subtree)
//   - Path patterns: build/*, docs/*.md
//   - Any-depth patterns: **/test, **/*.bak
func shouldExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relPath)
	baseName := filepath.Base(relPath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if matchPattern(normalized, baseName, filepath.ToSlash(pattern)) {
			return true
		}
	}

	return false
}

// matchPattern applies one normalized pattern to one normalized path.
func matchPattern(path, baseName, pattern string) bool {
	// Directory pattern: trailing slash excludes the directory itself
	// and everything beneath it, at any depth.
	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimSuffix(pattern, "/")
		return path == dir ||
			strings.HasPrefix(path, dir+"/") ||
			strings.Contains(path, "/"+dir+"/")
	}

	// Any-depth pattern: **/foo matches foo at any level.
	if strings.Contains(pattern, "**") {
		parts := strings.Split(pattern, "**/")
		if len(parts) != 2 || parts[0] != "" {
			return false
		}
		suffix := parts[1]
		if matchGlob(baseName, suffix) {
			return true
		}
		if path == suffix || strings.HasSuffix(path, "/"+suffix) {
			return true
		}
		return matchGlobComponent(path, suffix)
	}

	// Pattern with a separator applies to the full relative path.
	if strings.Contains(pattern, "/") {
		if matchGlob(path, pattern) {
			return true
		}
		// Also match from the end, so build/* applies to nested build
		// directories.
		return strings.HasSuffix(path, pattern)
	}

	// Bare pattern applies to the basename only.
	return matchGlob(baseName, pattern)
}

// matchGlob performs glob matching, treating a malformed pattern as a
// non-match.
func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}

// matchGlobComponent checks if any single component of the path
// matches the pattern.
func matchGlobComponent(path, pattern string) bool {
	for _, part := range strings.Split(path, "/") {
		if matchGlob(part, pattern) {
			return true
		}
	}
	return false
}
