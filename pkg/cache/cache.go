// Package cache stores rendered artifacts so repeated renders of an
// unchanged graph skip Graphviz.
//
// Keys are derived from the DOT source and the output format, see
// [ArtifactKey]. [FileCache] is used by the CLI; [NullCache] disables
// caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactOpts identifies one rendering of a DOT document.
type ArtifactOpts struct {
	Format string `json:"format"`
	Title  string `json:"title,omitempty"`
}

// ArtifactKey returns the key for the artifact rendered from dot.
func ArtifactKey(dot string, opts ArtifactOpts) string {
	return hashKey("artifact", Hash([]byte(dot)), opts)
}
