// Package storage keeps exported report artifacts.
//
// LocalStorage writes under a directory served by the API; S3Storage targets
// any S3-compatible bucket (AWS, R2, MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go-propdesk/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage defines the artifact store used by exports and scheduled runs.
type Storage interface {
	// Put stores data at key, replacing any existing object.
	Put(ctx context.Context, key string, data io.Reader, contentType string) error

	// URL returns a URL for downloading the object at key.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the object at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// URLExpiry bounds presigned download links
const URLExpiry = 24 * time.Hour

// NewStorage picks the backend named by STORAGE_DRIVER
func NewStorage(cfg *config.Config, logger *zap.Logger) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.StoragePath, cfg.StorageURL, logger)
	case "s3":
		return NewS3Storage(S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			PublicURL:       cfg.S3PublicURL,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}

// ArtifactKey builds a unique key for an exported file, grouped by month
func ArtifactKey(filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "report"
	}
	return fmt.Sprintf("reports/%s/%s-%s", now.UTC().Format("2006/01"), uuid.NewString(), name)
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return ErrInvalidKey
		}
	}
	return nil
}
