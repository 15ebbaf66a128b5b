package storage

import (
	"context"
	"fmt"
	"io"

	cfg "github.com/kennelworks/kennelbook/internal/config"
)

// Storage is the durable blob writer consumed by the animal workflow. It is
// only ever invoked after the database commit for the owning row succeeded.
type Storage interface {
	// Save stores a file at the given path, creating missing directories
	Save(ctx context.Context, path string, file io.Reader) error

	// Delete removes a file at the given path
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for accessing the file
	URL(path string) string
}

// New creates the storage driver selected by config: local disk for
// single-host deployments, or any S3-compatible service.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local":
		return NewLocalStorage(c.MediaPath)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
