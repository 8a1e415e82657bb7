package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds size limit")
	ErrInvalidKey      = errors.New("invalid storage key")
)

// ImageStore keeps item pictures. Keys are opaque and safe to put in a URL path.
type ImageStore interface {
	// Save stores the image and returns its generated key.
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
	// Open returns the image and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	// URL is the public address of a stored key.
	URL(key string) string
}
