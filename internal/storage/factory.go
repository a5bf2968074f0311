package storage

import "strings"

// Config holds configuration for artifact storage across backends.
type Config struct {
	Type      string // local, s3, r2, s3compatible; empty auto-detects
	LocalDir  string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	PublicURL string
}

// NewStorage creates an ObjectStorage instance based on the configuration.
// Parameters:
//   - cfg: storage configuration including backend type and credentials.
// Returns:
//   - ObjectStorage: initialized storage backend.
//   - error: non-nil if the backend cannot be created.
func NewStorage(cfg *Config) (ObjectStorage, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = detectStorageType(cfg.Endpoint)
	}

	if storageType == "local" {
		return NewLocalStorage(&LocalConfig{
			Dir:       cfg.LocalDir,
			PublicURL: cfg.PublicURL,
		})
	}

	return NewS3Storage(&S3Config{
		Type:      StorageType(storageType),
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		PublicURL: cfg.PublicURL,
	})
}

// detectStorageType attempts to detect the storage type from the endpoint
func detectStorageType(endpoint string) string {
	endpoint = strings.ToLower(endpoint)

	switch {
	case endpoint == "":
		return "local"
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return string(StorageTypeR2)
	case strings.Contains(endpoint, "amazonaws.com"):
		return string(StorageTypeS3)
	default:
		return string(StorageTypeS3Compatible)
	}
}
