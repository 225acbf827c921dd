package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

var _ ObjectStore = (*FileSystemStore)(nil)

// FileSystemStore stores objects as files below a root directory
type FileSystemStore struct {
	root   string
	logger *zap.Logger
}

// NewFileSystemStore creates a store rooted at root (default ".")
func NewFileSystemStore(root string, logger *zap.Logger) (*FileSystemStore, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemStore{root: abs, logger: logger}, nil
}

// Root returns the absolute root directory
func (s *FileSystemStore) Root() string {
	return s.root
}

func (s *FileSystemStore) pathFor(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Put writes data to key, replacing any existing file. The write goes to a
// temporary file first so readers never see a partial object.
func (s *FileSystemStore) Put(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	target, err := s.pathFor(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return Object{}, fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Object{}, fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return Object{}, fmt.Errorf("failed to set permissions on %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return Object{}, fmt.Errorf("failed to move %s into place: %w", key, err)
	}

	s.logger.Debug("object stored", zap.String("key", key), zap.String("path", target), zap.Int("bytes", len(data)))
	return Object{
		Key:         filepath.ToSlash(mustRel(s.root, target)),
		Location:    target,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Exists reports whether key is stored
func (s *FileSystemStore) Exists(_ context.Context, key string) (bool, error) {
	target, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return !info.IsDir(), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileSystemStore) Delete(_ context.Context, key string) error {
	target, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// DownloadURL returns a file:// URL for key. Local files do not expire.
func (s *FileSystemStore) DownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	target, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(target)}
	return u.String(), nil
}

func mustRel(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return target
	}
	return rel
}
