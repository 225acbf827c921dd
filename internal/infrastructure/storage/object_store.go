// Package storage provides object storage for exported tables and rendered documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Supported storage drivers
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// ErrInvalidKey is returned for empty keys or keys escaping the store root
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored object
type Object struct {
	Key         string
	Location    string // filesystem path or s3:// URI
	ContentType string
	Size        int64
}

// ObjectStore writes artifacts under slash-separated keys such as "data/orders.csv"
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// DownloadURL returns a link a user can open to fetch key
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
}

// Config selects and configures an ObjectStore
type Config struct {
	Driver string
	// Root is the directory of the local driver
	Root string
	S3   S3Config
}

// S3Config configures an S3-compatible bucket
type S3Config struct {
	Bucket            string
	Prefix            string
	Region            string
	Endpoint          string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// New creates the ObjectStore selected by cfg.Driver
func New(ctx context.Context, cfg Config, logger *zap.Logger) (ObjectStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", DriverLocal:
		return NewFileSystemStore(cfg.Root, logger)
	case DriverS3:
		store, err := NewS3ObjectStorage(&cfg.S3, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// CleanKey normalises key and rejects keys that are empty, absolute or climb
// out of the store root
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: key is required", ErrInvalidKey)
	}
	key = strings.ReplaceAll(key, "\\", "/")
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q escapes the store root", ErrInvalidKey, key)
	}
	return cleaned, nil
}
