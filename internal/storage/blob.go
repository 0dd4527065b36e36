package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Blob.Read when nothing has been saved yet.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is a single named, whole-value persisted document. Write always
// replaces the previous contents.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}
