// Package blobstore provides content storage for uploaded image blobs.
// Metadata lives in the relational store; only the raw bytes live here.
package blobstore

import "context"

// BlobStorage stores image bytes under an opaque key.
//
// URL must be stable: resolving the same key always yields the same string.
// The attachment reconciler compares these URLs against the src attributes
// embedded in note bodies, so any instability would cause spurious purges.
type BlobStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	URL(key string) string
}
