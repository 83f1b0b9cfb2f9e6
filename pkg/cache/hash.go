package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key builds a namespaced cache key from parts, e.g.
// Key("ndvi", "McLean, IL", "2025-07-14") -> "ndvi:McLean, IL:2025-07-14".
// Backends hash keys before storage, so parts may contain any characters.
func Key(namespace string, parts ...string) string {
	key := namespace
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
