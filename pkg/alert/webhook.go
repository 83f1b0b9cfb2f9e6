package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cropsignal/cropsignal/pkg/errors"
	"github.com/cropsignal/cropsignal/pkg/httputil"
)

// Webhook posts alerts and sweep rows as JSON to an external endpoint,
// typically a spreadsheet ingestion script. Photos are dropped since the
// receiver only understands rows.
type Webhook struct {
	http *http.Client
	url  string
}

// WebhookRow is one observation row pushed to the sheet after every
// sweep, alerted or not.
type WebhookRow struct {
	Date    string  `json:"date"`
	Zone    string  `json:"zone"`
	Tier    string  `json:"tier"`
	NDVI    float64 `json:"ndvi"`
	Anomaly float64 `json:"anomaly_pct"`
	ZScore  float64 `json:"zscore"`
	Delta7d float64 `json:"delta_7d"`
	Stage   string  `json:"stage"`
	Alerted bool    `json:"alerted"`
}

// NewWebhook builds a webhook notifier for url.
func NewWebhook(url string) (*Webhook, error) {
	if url == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "webhook url is required")
	}
	return &Webhook{
		http: &http.Client{Timeout: 30 * time.Second},
		url:  url,
	}, nil
}

// WithWebhookHTTPClient swaps the HTTP client, mainly for tests.
func (w *Webhook) WithWebhookHTTPClient(c *http.Client) *Webhook {
	w.http = c
	return w
}

// Notify posts the alert payload as JSON.
func (w *Webhook) Notify(ctx context.Context, a Alert) error {
	return w.post(ctx, map[string]any{"kind": "alert", "alert": a})
}

// Summary posts the text only; the photo has no row representation.
func (w *Webhook) Summary(ctx context.Context, text string, photo []byte) error {
	return w.post(ctx, map[string]any{"kind": "summary", "text": text})
}

// PushRow posts a single observation row.
func (w *Webhook) PushRow(ctx context.Context, row WebhookRow) error {
	return w.post(ctx, map[string]any{"kind": "row", "row": row})
}

func (w *Webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.http.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &httputil.RetryableError{
				Err: errors.New(errors.ErrCodeNetwork, "webhook: status %d", resp.StatusCode),
			}
		default:
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return errors.New(errors.ErrCodeNetwork,
				"webhook: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		}
	})
}

var _ Notifier = (*Webhook)(nil)
