package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned by Get for a key that holds no blob.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists raw file bytes under opaque keys. Implementations must
// be safe for concurrent use; callers avoid key collisions by writing each
// blob under a freshly generated key (see NewKey). Delete is idempotent.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Presigner is implemented by stores that can mint short-lived direct
// download URLs, so downloads bypass the application server entirely.
type Presigner interface {
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// NewKey returns a fresh storage key. Keys are random, so concurrent
// uploads never write to the same object.
func NewKey() string {
	return uuid.NewString()
}
