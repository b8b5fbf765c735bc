package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputStore manages per-prediction output directories under a fixed root.
// A directory is keyed by the sanitized upload filename ('.' replaced with
// '_'), so repeated predictions for the same upload overwrite in place.
type OutputStore struct {
	root string
}

// NewOutputStore creates the store, making the root directory if needed.
func NewOutputStore(root string) (*OutputStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputStore{root: root}, nil
}

// DirNameFor derives the output directory name for an upload filename.
func DirNameFor(uploadName string) string {
	return strings.ReplaceAll(uploadName, ".", "_")
}

// EnsureDir creates (idempotently) and returns the directory for name.
func (s *OutputStore) EnsureDir(name string) (string, error) {
	dir, err := s.Dir(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}

// Dir returns the path for an output directory name without creating it.
// Traversal attempts are rejected.
func (s *OutputStore) Dir(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, name), nil
}

// Exists reports whether the named output directory is present.
func (s *OutputStore) Exists(name string) bool {
	dir, err := s.Dir(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
