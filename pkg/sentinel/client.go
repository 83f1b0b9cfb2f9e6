package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cropsignal/cropsignal/pkg/cache"
	"github.com/cropsignal/cropsignal/pkg/config"
	"github.com/cropsignal/cropsignal/pkg/httputil"
	"github.com/cropsignal/cropsignal/pkg/observability"
)

// Fetcher retrieves the mean NDVI for a zone on a given date.
// Implemented by [Client] and [Simulator].
type Fetcher interface {
	FetchNDVI(ctx context.Context, zone config.Zone, date time.Time, refresh bool) (float64, error)
}

// Credentials are the OAuth2 client credentials for a Sentinel Hub
// account.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Client talks to the Sentinel Hub API. It handles token refresh,
// response caching, and automatic retries for transient failures.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
	creds   Credentials

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests and by the
// Copernicus deployment which lives under a different host).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Sentinel Hub client.
//
// Parameters:
//   - creds: OAuth2 client credentials (both fields required)
//   - backend: cache backend for NDVI responses (use cache.NewNullCache()
//     for no caching)
//   - ttl: how long NDVI responses stay cached
//
// The returned Client is safe for concurrent use.
func NewClient(creds Credentials, backend cache.Cache, ttl time.Duration, opts ...Option) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client credentials", ErrUnauthorized)
	}
	c := &Client{
		http:    newHTTPClient(),
		cache:   backend,
		ttl:     ttl,
		baseURL: DefaultBaseURL,
		creds:   creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true, the cache is bypassed and fetch is always
// called. The fetch function should populate v; on success, v is stored.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "ndvi")
			return json.Unmarshal(data, v)
		}
		observability.Cache().OnCacheMiss(ctx, "ndvi")
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
		observability.Cache().OnCacheSet(ctx, "ndvi", len(data))
	}
	return nil
}

// postJSON performs an authenticated POST with a JSON body and decodes
// the JSON response into v.
func (c *Client) postJSON(ctx context.Context, url string, body, v any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		// Token may have been revoked server-side; drop it so the next
		// attempt re-authenticates.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err:        fmt.Errorf("%w: rate limited", ErrNetwork),
			RetryAfter: retryAfter(resp),
		}
	case resp.StatusCode >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, bytes.TrimSpace(body))
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := time.ParseDuration(v + "s"); err == nil {
			return secs
		}
	}
	return 0
}
