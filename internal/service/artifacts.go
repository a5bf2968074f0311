package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/storage"
)

// ArtifactInfo is one listed clip artifact.
type ArtifactInfo struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// ArtifactService wraps artifact storage for the listing, serving, and
// deletion endpoints, and mirrors finished clips to remote backends.
type ArtifactService struct {
	storage  storage.ObjectStorage
	clipsDir string
}

// NewArtifactService creates an artifact service.
// Parameters:
//   - store: artifact storage backend.
//   - clipsDir: local directory the transcoder writes to.
// Returns:
//   - *ArtifactService: initialized service.
func NewArtifactService(store storage.ObjectStorage, clipsDir string) *ArtifactService {
	return &ArtifactService{storage: store, clipsDir: clipsDir}
}

// ValidateName rejects names that could escape the artifact namespace.
// Parameters:
//   - name: artifact filename from the request path.
// Returns:
//   - error: *domain.ValidationError for traversal attempts or empty names.
func (s *ArtifactService) ValidateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return &domain.ValidationError{Reason: "invalid artifact name"}
	}
	return nil
}

// URL returns the publicly addressable URL for an artifact name.
func (s *ArtifactService) URL(name string) string {
	return s.storage.GetURL(name)
}

// LocalPath returns the on-disk path for an artifact, or empty when the
// backend is not filesystem-backed.
func (s *ArtifactService) LocalPath(name string) string {
	if local, ok := s.storage.(*storage.LocalStorage); ok {
		return filepath.Join(local.Dir(), filepath.Base(name))
	}
	return ""
}

// List enumerates persisted artifacts.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []ArtifactInfo: stored artifacts with public URLs.
//   - error: non-nil if the backend listing fails.
func (s *ArtifactService) List(ctx context.Context) ([]ArtifactInfo, error) {
	objects, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	artifacts := make([]ArtifactInfo, 0, len(objects))
	for _, obj := range objects {
		artifacts = append(artifacts, ArtifactInfo{
			Filename: obj.Key,
			URL:      s.storage.GetURL(obj.Key),
			Size:     obj.Size,
		})
	}
	return artifacts, nil
}

// Delete removes one artifact by name.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: artifact filename.
// Returns:
//   - error: validation or backend failure.
func (s *ArtifactService) Delete(ctx context.Context, name string) error {
	if err := s.ValidateName(name); err != nil {
		return err
	}
	return s.storage.Delete(ctx, name)
}

// Mirror uploads locally produced artifacts to the remote backend. With the
// local backend the transcoder already wrote them in place and this is a no-op.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - names: artifact filenames to mirror.
// Returns:
//   - error: first upload failure encountered.
func (s *ArtifactService) Mirror(ctx context.Context, names []string) error {
	if _, ok := s.storage.(*storage.LocalStorage); ok {
		return nil
	}

	for _, name := range names {
		exists, err := s.storage.Exists(ctx, name)
		if err == nil && exists {
			continue
		}

		path := filepath.Join(s.clipsDir, filepath.Base(name))
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open artifact %s: %w", name, err)
		}
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to stat artifact %s: %w", name, err)
		}

		err = s.storage.Upload(ctx, name, f, fi.Size(), "video/mp4")
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to upload artifact %s: %w", name, err)
		}
	}
	return nil
}
