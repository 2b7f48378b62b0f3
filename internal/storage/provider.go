package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

// Provider addresses blobs by (bucket, key). The training job reads the dataset
// and writes the model artifact through it, the serving process reads the
// artifact once at startup.
type Provider interface {
	CreateBucket(ctx context.Context, bucket string) error

	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// PutObject replaces any existing object at the same key.
	PutObject(ctx context.Context, bucket, key string, data io.Reader) error
}
