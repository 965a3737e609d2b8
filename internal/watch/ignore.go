package watch

import (
	"path/filepath"
	"strings"
)

// ignoredDir reports whether path is dir or lies below it.
func ignoredDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// shouldIgnoreFile filters hidden files and editor or OS droppings.
func shouldIgnoreFile(path string) bool {
	base := filepath.Base(path)

	// Hidden files, which also covers .DS_Store and emacs .# locks
	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "4913" // vim writability probe
}
