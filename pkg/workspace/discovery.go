package workspace

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/uidocgen/pkg/parser"
)

// Discover walks root and returns the supported source files matching
// include and not matching exclude, in walk order. Excluded directories
// are not descended into.
func Discover(root string, include, exclude []string) ([]string, error) {
	if err := validatePatterns(include, exclude); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("walk error", "path", path, "error", err)
			return nil
		}
		rel := relative(root, path)
		if rel != "." && matchAny(exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if included(rel, include) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Match reports whether path, a file under root, would be discovered.
func Match(root, path string, include, exclude []string) bool {
	rel := relative(root, path)
	if matchAny(exclude, rel) || excludedDir(rel, exclude) {
		return false
	}
	return included(rel, include)
}

func validatePatterns(include, exclude []string) error {
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	return nil
}

func included(rel string, include []string) bool {
	if !parser.IsSupportedFile(rel) {
		return false
	}
	return len(include) == 0 || matchAny(include, rel)
}

// excludedDir reports whether any parent directory of rel is excluded.
func excludedDir(rel string, exclude []string) bool {
	for dir := filepath.ToSlash(filepath.Dir(rel)); dir != "." && dir != "/"; dir = filepath.ToSlash(filepath.Dir(dir)) {
		if matchAny(exclude, dir) {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// relative returns path relative to root with forward slashes.
func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
