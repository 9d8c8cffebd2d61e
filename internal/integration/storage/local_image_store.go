// Package storage keeps uploaded receipt images on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// URLPrefix is the path images are served under.
const URLPrefix = "/uploads/"

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// localImageStore implements adapter.ImageStore.
type localImageStore struct {
	dir string
}

// NewLocalImageStore creates the upload directory if needed and returns a store writing into it.
func NewLocalImageStore(dir string) (adapter.ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localImageStore{dir: dir}, nil
}

// Save writes the image under a random name.
func (s *localImageStore) Save(ctx context.Context, data []byte, mediaType string) (string, error) {
	ext, ok := extensions[mediaType]
	if !ok {
		ext = ".bin"
	}
	name := uuid.NewString() + ext

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return URLPrefix + name, nil
}

// Delete removes the image behind url. Unknown or missing files are ignored.
func (s *localImageStore) Delete(ctx context.Context, url string) error {
	name := strings.TrimPrefix(url, URLPrefix)
	if name == url || name == "" || name != filepath.Base(name) {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
