package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound reports a key with no stored object. Connectivity and other
// backend failures are returned as ordinary wrapped errors, never as ErrNotFound.
var ErrNotFound = errors.New("object not found")

// BlobStore defines the contract for saving and retrieving raw document bytes.
// Keys are caller-supplied and must be globally unique; implementations do not
// generate them. Put either fully succeeds or reports failure.
type BlobStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Ping(ctx context.Context) error
}
