package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps images as plain files under a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(_ context.Context, name string, data []byte, _ string) error {
	return os.WriteFile(filepath.Join(s.dir, filepath.Base(name)), data, 0o644)
}

func (s *DiskStore) Open(_ context.Context, name string) ([]byte, string, error) {
	// Base strips any path traversal attempt out of the name.
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))

	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}

		return nil, "", err
	}

	return data, contentTypeFor(name), nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
