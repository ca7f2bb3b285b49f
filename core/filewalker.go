package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileScope defines which files a walk visits.
type FileScope struct {
	Path    string   // Root directory to scan
	Base    string   // Directory patterns are relative to (empty = Path)
	Include []string // Patterns a file must match (empty = all)
	Exclude []string // Patterns excluding a file or a whole directory
}

func (s FileScope) base() string {
	if s.Base == "" {
		return s.Path
	}
	return s.Base
}

// WalkResult represents a discovered file
type WalkResult struct {
	Path string
	Info fs.FileInfo
}

// FileWalker discovers source files below a root in a deterministic order.
type FileWalker struct{}

// NewFileWalker creates a new file walker
func NewFileWalker() *FileWalker {
	return &FileWalker{}
}

// Walk returns every regular file below scope.Path that matches Include and none of
// Exclude, sorted by path component the way os.ReadDir sorts entries. Patterns are
// doublestar globs matched against the slash-separated path relative to the scope base;
// patterns without a slash also match the base name.
func (fw *FileWalker) Walk(ctx context.Context, scope FileScope) ([]WalkResult, error) {
	if err := fw.validateScope(scope); err != nil {
		return nil, err
	}
	for _, pattern := range append(append([]string(nil), scope.Include...), scope.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
	}

	var results []WalkResult
	if err := fw.scanDirectory(ctx, scope.Path, scope, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// scanDirectory recursively discovers files matching patterns
func (fw *FileWalker) scanDirectory(
	ctx context.Context,
	dirPath string,
	scope FileScope,
	results *[]WalkResult,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dirPath, err)
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())
		rel := fw.relative(scope.base(), fullPath)

		if fw.matchAny(rel, scope.Exclude) {
			continue
		}

		if entry.IsDir() {
			if err := fw.scanDirectory(ctx, fullPath, scope, results); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		if len(scope.Include) > 0 && !fw.matchAny(rel, scope.Include) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", fullPath, err)
		}
		*results = append(*results, WalkResult{Path: fullPath, Info: info})
	}

	return nil
}

func (fw *FileWalker) relative(root, path string) string {
	if filepath.IsAbs(root) != filepath.IsAbs(path) {
		root, _ = filepath.Abs(root)
		path, _ = filepath.Abs(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (fw *FileWalker) matchAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if fw.matchPattern(rel, pattern) {
			return true
		}
	}
	return false
}

// matchPattern performs glob-style pattern matching with ** support
func (fw *FileWalker) matchPattern(rel, pattern string) bool {
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
	pattern = strings.TrimPrefix(pattern, "./")

	if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
		return true
	}

	// Try basename for simple patterns without path separators
	if !strings.Contains(pattern, "/") {
		if matched, err := doublestar.Match(pattern, filepath.Base(rel)); err == nil && matched {
			return true
		}
	}

	return false
}

// validateScope validates FileScope parameters
func (fw *FileWalker) validateScope(scope FileScope) error {
	if scope.Path == "" {
		return fmt.Errorf("path is required")
	}

	info, err := os.Stat(scope.Path)
	if err != nil {
		return fmt.Errorf("cannot access path %s: %w", scope.Path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", scope.Path)
	}

	return nil
}
