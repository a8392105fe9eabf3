package sdsstore

import (
	"context"
	"io"
)

// BlobStore persists SDS document contents; metadata lives in the database.
type BlobStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
