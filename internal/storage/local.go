package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements ObjectStorage on the local filesystem. It is the
// default backend: the transcoder already writes artifacts to a local
// directory, and the API serves them from the same place.
type LocalStorage struct {
	dir       string
	publicURL string
}

// LocalConfig holds configuration for filesystem storage.
type LocalConfig struct {
	Dir       string
	PublicURL string // URL prefix artifacts are served under
}

// NewLocalStorage creates a filesystem storage backend.
// Parameters:
//   - cfg: local storage configuration.
// Returns:
//   - *LocalStorage: initialized backend.
//   - error: non-nil if the directory cannot be created.
func NewLocalStorage(cfg *LocalConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		dir:       cfg.Dir,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// Dir returns the backing directory.
func (s *LocalStorage) Dir() string { return s.dir }

// path resolves a key inside the storage directory. Keys are flattened to
// their base name so a crafted key cannot escape the directory.
func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}

// Upload writes an object to the storage directory
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(s.path(key))
		return fmt.Errorf("failed to write object: %w", err)
	}
	return f.Close()
}

// Download opens an object for reading
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// GetURL returns the public URL for an object
func (s *LocalStorage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, filepath.Base(key))
}

// Delete removes an object
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether a non-empty object is present
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fi, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return fi.Size() > 0, nil
}

// List enumerates stored artifacts
func (s *LocalStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	objects := make([]ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".part") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, ObjectInfo{Key: entry.Name(), Size: info.Size()})
	}
	return objects, nil
}
