// Package sentinel provides access to the Sentinel Hub API for NDVI
// retrieval.
//
// The client authenticates with OAuth2 client credentials, keeps the
// access token in memory until shortly before expiry, and fetches the
// mean NDVI over a small box around each zone point via the Statistics
// API. Responses are cached through [cache.Cache] keyed by zone and
// date, since a processed scene for a past date never changes.
//
// All methods are safe for concurrent use by multiple goroutines.
package sentinel

import (
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Sentinel Hub services endpoint.
	DefaultBaseURL = "https://services.sentinel-hub.com"

	httpTimeout = 30 * time.Second

	// tokenExpiryMargin refreshes the token this long before it would
	// actually expire, so in-flight requests never race expiry.
	tokenExpiryMargin = 60 * time.Second
)

var (
	// ErrNotFound is returned when no satellite scene matches the query
	// (e.g. full cloud cover for the whole day).
	ErrNotFound = errors.New("no matching scene")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned when the configured client credentials
	// are rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// IsNotFound reports whether err means no scene matched the query.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// evalscript computes NDVI from the red (B04) and near-infrared (B08)
// Sentinel-2 bands. Kept verbatim from the instance configuration.
const evalscript = `//VERSION=3
function setup() {
  return {
    input: [{ bands: ["B04", "B08", "dataMask"] }],
    output: [
      { id: "ndvi", bands: 1, sampleType: "FLOAT32" },
      { id: "dataMask", bands: 1 }
    ]
  };
}

function evaluatePixel(sample) {
  let ndvi = (sample.B08 - sample.B04) / (sample.B08 + sample.B04);
  return { ndvi: [ndvi], dataMask: [sample.dataMask] };
}`

// newHTTPClient creates an HTTP client with a standard timeout for
// Sentinel Hub requests.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
