package storage

import (
	"context"
	"io"
)

// ObjectInfo describes one stored artifact.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage defines the interface for artifact storage operations
type ObjectStorage interface {
	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download downloads an object from storage
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the publicly addressable URL for an object
	GetURL(key string) string

	// Delete deletes an object from storage
	Delete(ctx context.Context, key string) error

	// Exists checks if a non-empty object exists
	Exists(ctx context.Context, key string) (bool, error)

	// List enumerates stored objects
	List(ctx context.Context) ([]ObjectInfo, error)
}
