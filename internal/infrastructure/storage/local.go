// Package storage persists uploaded product images on the local filesystem
// and serves them through the router's static file handler.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalImageStore writes images into a flat directory. Every upload gets a
// globally unique filename, so concurrent uploads never collide (and a
// replaced image never overwrites the file it supersedes).
type LocalImageStore struct {
	dir       string
	urlPrefix string
	logger    zerolog.Logger
}

// NewLocalImageStore creates the target directory if needed. urlPrefix is
// the public path the router serves the directory under, e.g. "/images".
func NewLocalImageStore(dir, urlPrefix string, logger zerolog.Logger) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalImageStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

// Save streams the upload to disk under a fresh uuid-based name, keeping the
// original extension, and returns the public URL path.
func (s *LocalImageStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close image file: %w", err)
	}

	s.logger.Debug().Str("path", path).Msg("image stored")
	return s.urlPrefix + "/" + name, nil
}

// Delete removes a previously stored image by its public URL. Unknown files
// and external URLs are ignored; only files inside the store directory are
// ever touched.
func (s *LocalImageStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}

	name := filepath.Base(strings.TrimPrefix(url, s.urlPrefix+"/"))
	path := filepath.Join(s.dir, name)

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
