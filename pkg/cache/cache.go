// Package cache provides response caching for the Sentinel Hub client.
//
// Satellite observations for a given zone and date never change once the
// scene is processed, so caching them aggressively avoids burning through
// the Sentinel Hub processing-unit quota on repeated sweeps. OAuth tokens
// are cached with their expiry as TTL.
//
// Three backends are provided:
//
//   - [FileCache]: entries stored as files under a directory (CLI default)
//   - [RedisCache]: shared cache for server deployments (REDIS_URL)
//   - [NullCache]: no-op, for tests and --no-cache runs
//
// Keys are hashed with SHA-256 before use so any zone name or URL is a
// safe key for every backend.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources (connections, file handles).
	Close() error
}
