package sentinel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cropsignal/cropsignal/pkg/httputil"
)

// accessToken returns a valid bearer token, fetching a fresh one from
// the OAuth token endpoint when the cached token is absent or close to
// expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryMargin)) {
		return c.token, nil
	}

	var token string
	var expiresIn int
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		token, expiresIn, err = c.fetchToken(ctx)
		return err
	})
	if err != nil {
		return "", err
	}

	c.token = token
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return c.token, nil
}

// fetchToken exchanges client credentials for an access token.
func (c *Client) fetchToken(ctx context.Context) (string, int, error) {
	data := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(data.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decoding.
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusForbidden:
		return "", 0, fmt.Errorf("%w: token request rejected (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 500:
		return "", 0, httputil.Retryable(fmt.Errorf("%w: token endpoint status %d", ErrNetwork, resp.StatusCode))
	default:
		return "", 0, fmt.Errorf("%w: token endpoint status %d", ErrNetwork, resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if result.Error != "" {
		return "", 0, fmt.Errorf("%w: %s: %s", ErrUnauthorized, result.Error, result.ErrorDesc)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	expiresIn := result.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 300
	}
	return result.AccessToken, expiresIn, nil
}
