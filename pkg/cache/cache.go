// Package cache stores analysis results and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, for CLI use
//   - [RedisCache]: shared storage for the HTTP API
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] from content hashes, so two runs over the
// same heights and options always resolve to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes. Analysis results never change for the same input; the
// TTLs only bound disk and memory use.
const (
	TTLAnalysis = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
