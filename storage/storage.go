package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// ErrObjectNotFound is returned by Get when no object exists under the key
var ErrObjectNotFound = errors.New("object not found")

// Storage interface for object storage operations
type Storage interface {
	// Put stores data under key, fully replacing any existing object.
	// It returns only once the object is durable in the backend.
	Put(ctx context.Context, key string, data io.Reader, contentType string) error

	// Get retrieves an object by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	S3Endpoint   string // Optional, for S3-compatible servers
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("an S3 bucket is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, errors.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// cleanKey normalizes an object key and rejects keys escaping the root
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned == "." {
		return "", errors.Errorf("invalid storage key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", errors.Errorf("invalid storage key %q", key)
		}
	}
	return cleaned, nil
}
