// Package media stores product images uploaded by administrators.
package media

import "context"

// ImageStorage persists image bytes under a key and resolves their public URL.
// The infrastructure layer provides a local filesystem and an S3 implementation.
type ImageStorage interface {
	// Put writes data under key, replacing any existing object
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is stored
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the address clients use to fetch key
	URL(key string) string
}
