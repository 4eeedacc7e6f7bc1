package assets

import (
	"context"
	"errors"
	"log"
)

// ErrUploadFailed reports that the raw asset could not be resolved to a
// hosted URL. Sends abort before any message is persisted.
var ErrUploadFailed = errors.New("asset upload failed")

// Resolver turns a raw image payload (a data URI or remote URL from the
// client) into a stored asset URL. Resolution is awaited before the
// message is persisted.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

// PassthroughResolver returns the raw payload unchanged. Used when no
// object store is configured, typically in development.
type PassthroughResolver struct{}

// Resolve returns the input as the asset URL.
func (PassthroughResolver) Resolve(_ context.Context, raw string) (string, error) {
	if raw == "" {
		return "", ErrUploadFailed
	}
	return raw, nil
}

// NewResolver picks the S3 resolver when a bucket is configured, otherwise
// the passthrough.
func NewResolver(ctx context.Context, bucket, baseURL string) Resolver {
	if bucket == "" {
		log.Printf("asset store disabled, using passthrough: empty bucket")
		return PassthroughResolver{}
	}
	resolver, err := NewS3Resolver(ctx, bucket, baseURL)
	if err != nil {
		log.Printf("asset store disabled, using passthrough: %v", err)
		return PassthroughResolver{}
	}
	log.Printf("asset store connected bucket=%s", bucket)
	return resolver
}
