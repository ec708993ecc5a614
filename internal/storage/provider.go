// Package storage defines where scrape results are persisted.
// The local filesystem is the default; a GCS bucket can be selected instead.
package storage

import (
	"context"
	"io"
)

// BlobStore writes an artifact and returns a URI that locates it.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, r io.Reader) (string, error)
}
