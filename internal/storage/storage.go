package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("storage: not found")

// Backend stores uploaded bytes. The rest of the system never cares where
// they live; Local keeps them under an uploads directory, S3 in a bucket.
type Backend interface {
	// Save writes the object and returns the key it was stored under.
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Open returns the object's bytes and content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	// URL returns a client-resolvable URL for the object.
	URL(ctx context.Context, key string) (string, error)
}
