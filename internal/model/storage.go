package model

import (
	"context"
	"io"
)

// Backend is the raw key-value store the local store persists into.
// Get returns ErrNotFound for a missing key; Remove of a missing key succeeds.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	// Usage returns the summed byte length of every key and value.
	Usage(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

// Storage is an object store for uploaded media.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Bucket() string
}
