// Package imagestore persists generated recipe photos and serves them back
// under /images. Two backends: local disk (default) and MinIO.
package imagestore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no object exists under the given name.
var ErrNotFound = errors.New("image not found")

type Store interface {
	// Save persists the bytes under name with the given content type.
	Save(ctx context.Context, name string, data []byte, contentType string) error
	// Open returns the bytes and content type stored under name.
	Open(ctx context.Context, name string) ([]byte, string, error)
}

// NewName mints a fresh unique object name with an extension matching the
// content type.
func NewName(contentType string) string {
	ext := ".png"

	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}

	return uuid.NewString() + ext
}
