package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// Artifact categories under the base directory
const (
	CategoryQRCodes = "qr_codes"
	CategoryPDFs    = "pdfs"
	CategoryUploads = "uploads"
)

// Store persists rendered artifacts (tracking codes, documents) and resolves
// their recorded locations back to files. Locations are root-relative URL
// paths like /static/pdfs/CH-1.pdf so they can be stored and served as-is.
type Store interface {
	// Save writes data under category/name and returns the artifact location
	Save(category, name string, data []byte) (string, error)
	// Resolve maps a stored location to a filesystem path; ok is false when
	// the location is empty or the file no longer exists
	Resolve(location string) (string, bool)
	// Remove deletes the file behind a stored location, if any
	Remove(location string) error
}

// LocalStore keeps artifacts on the local disk under baseDir
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a LocalStore rooted at baseDir (for example "static")
func NewLocalStore(baseDir string) *LocalStore {
	if baseDir == "" {
		baseDir = "static"
	}
	return &LocalStore{baseDir: baseDir}
}

// Save writes data under category/name and returns the artifact location
func (s *LocalStore) Save(category, name string, data []byte) (string, error) {
	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(path), nil
}

// Resolve maps a stored location to a filesystem path
func (s *LocalStore) Resolve(location string) (string, bool) {
	rel := strings.TrimPrefix(location, "/")
	if rel == "" {
		return "", false
	}
	path := filepath.FromSlash(rel)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Remove deletes the file behind a stored location, if any
func (s *LocalStore) Remove(location string) error {
	path, ok := s.Resolve(location)
	if !ok {
		return nil
	}
	return os.Remove(path)
}
