// Package storage persists uploaded images and returns public URLs for
// them. The S3 store is used in production; the local store backs
// development and tests.
package storage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

// Store persists uploaded images under generated keys.
type Store interface {
	// Put stores the content under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes the stored object. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}

// NewKey builds a unique object key for an uploaded file, keeping the
// original extension.
func NewKey(prefix, filename string) string {
	return prefix + uuid.NewString() + path.Ext(filename)
}
