// Package storage manages uploaded datasets and prediction output
// directories on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/learning-intelligence/backend/internal/models"
)

// UploadStore persists uploaded dataset files under a single directory,
// named upload_<YYYYMMDD_HHMMSS><ext>. Naming is second-granularity by
// design of the original tool; simultaneous uploads within the same second
// get a numeric suffix instead of overwriting each other.
type UploadStore struct {
	mu        sync.RWMutex
	uploadDir string
	files     map[string]*models.FileInfo // keyed by on-disk name
	now       func() time.Time
}

// NewUploadStore creates the store, making the directory if needed.
func NewUploadStore(uploadDir string) (*UploadStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &UploadStore{
		uploadDir: uploadDir,
		files:     make(map[string]*models.FileInfo),
		now:       time.Now,
	}, nil
}

// Save writes the uploaded content to disk under a timestamped name and
// returns its metadata. ext must include the leading dot.
func (s *UploadStore) Save(r io.Reader, ext string) (*models.FileInfo, error) {
	info := &models.FileInfo{
		ID:         uuid.New().String(),
		UploadedAt: s.now(),
	}

	// Reserve the name under the lock so a concurrent save in the same
	// second cannot pick it too.
	s.mu.Lock()
	info.Name = s.nextName(ext)
	s.files[info.Name] = info
	s.mu.Unlock()

	path := filepath.Join(s.uploadDir, info.Name)
	f, err := os.Create(path)
	if err != nil {
		s.forget(info.Name)
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		s.forget(info.Name)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	info.Size = size

	return info, nil
}

func (s *UploadStore) forget(name string) {
	s.mu.Lock()
	delete(s.files, name)
	s.mu.Unlock()
}

// nextName picks an unused timestamped name. Caller holds s.mu.
func (s *UploadStore) nextName(ext string) string {
	base := fmt.Sprintf("upload_%s", s.now().Format("20060102_150405"))
	name := base + ext
	for i := 1; s.exists(name); i++ {
		name = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	return name
}

func (s *UploadStore) exists(name string) bool {
	if _, ok := s.files[name]; ok {
		return true
	}
	_, err := os.Stat(filepath.Join(s.uploadDir, name))
	return err == nil
}

// Path returns the on-disk path for an upload name. Names containing path
// separators or traversal segments are rejected.
func (s *UploadStore) Path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.uploadDir, name), nil
}

// Exists reports whether the named upload is present on disk.
func (s *UploadStore) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Delete removes an upload from disk and from the metadata map.
func (s *UploadStore) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing file: %w", err)
	}

	s.mu.Lock()
	delete(s.files, name)
	s.mu.Unlock()
	return nil
}

// List returns up to limit uploads, most recent first.
func (s *UploadStore) List(limit int) []*models.FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

// checkName rejects names that could escape the managed directory.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid name: %q", name)
	}
	return nil
}
