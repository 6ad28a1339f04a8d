// Package helpers provides file handling utilities.
package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileCleanup is a resource manager for temporary files
type FileCleanup struct {
	files []string
	log   *logrus.Entry
}

// Add registers a file for cleanup
func (fc *FileCleanup) Add(path string) {
	if path == "" {
		return
	}
	fc.files = append(fc.files, path)
}

// Cleanup removes all registered files. Files that are already gone are not
// an error.
func (fc *FileCleanup) Cleanup() error {
	var lastErr error
	for _, f := range fc.files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			lastErr = err
			fc.log.WithError(err).Warnf("failed to remove temp file %s", f)
			continue
		}
		fc.log.Debugf("removed temp file %s", f)
	}
	fc.files = fc.files[:0]
	return lastErr
}

// NewFileCleanup creates a new FileCleanup manager
func NewFileCleanup(log *logrus.Entry) *FileCleanup {
	return &FileCleanup{
		files: make([]string, 0),
		log:   log,
	}
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// ShareURI turns a path below shareDir into a share:// URI.
func ShareURI(shareDir, path string) string {
	rel, err := filepath.Rel(shareDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ShareScheme + strings.TrimLeft(filepath.ToSlash(path), "/")
	}
	return ShareScheme + filepath.ToSlash(rel)
}
