package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cropsignal/cropsignal/pkg/errors"
	"github.com/cropsignal/cropsignal/pkg/httputil"
)

const telegramBaseURL = "https://api.telegram.org"

// Telegram delivers alerts to a chat via the Bot API. Messages use HTML
// parse mode; summaries with a photo go through sendPhoto so the chart
// renders inline.
type Telegram struct {
	http    *http.Client
	baseURL string
	token   string
	chatID  string
}

// TelegramOption customizes a Telegram notifier.
type TelegramOption func(*Telegram)

// WithTelegramBaseURL overrides the Bot API endpoint, mainly for tests.
func WithTelegramBaseURL(url string) TelegramOption {
	return func(t *Telegram) { t.baseURL = strings.TrimSuffix(url, "/") }
}

// WithTelegramHTTPClient swaps the HTTP client.
func WithTelegramHTTPClient(c *http.Client) TelegramOption {
	return func(t *Telegram) { t.http = c }
}

// NewTelegram builds a notifier for the given bot token and chat.
func NewTelegram(token, chatID string, opts ...TelegramOption) (*Telegram, error) {
	if token == "" || chatID == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "telegram token and chat id are required")
	}
	t := &Telegram{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: telegramBaseURL,
		token:   token,
		chatID:  chatID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Notify sends a formatted zone alert as a text message.
func (t *Telegram) Notify(ctx context.Context, a Alert) error {
	return t.sendMessage(ctx, FormatAlert(a))
}

// Summary sends text, attaching the photo when one is given.
func (t *Telegram) Summary(ctx context.Context, text string, photo []byte) error {
	if len(photo) == 0 {
		return t.sendMessage(ctx, text)
	}
	return t.sendPhoto(ctx, text, photo)
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}
	return httputil.RetryWithBackoff(ctx, func() error {
		return t.post(ctx, "sendMessage", "application/json", bytes.NewReader(body))
	})
}

func (t *Telegram) sendPhoto(ctx context.Context, caption string, photo []byte) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if err := mw.WriteField("chat_id", t.chatID); err != nil {
			return err
		}
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
		if err := mw.WriteField("parse_mode", "HTML"); err != nil {
			return err
		}
		part, err := mw.CreateFormFile("photo", "report.png")
		if err != nil {
			return err
		}
		if _, err := part.Write(photo); err != nil {
			return err
		}
		if err := mw.Close(); err != nil {
			return err
		}
		return t.post(ctx, "sendPhoto", mw.FormDataContentType(), &buf)
	})
}

func (t *Telegram) post(ctx context.Context, method, contentType string, body io.Reader) error {
	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err:        errors.New(errors.ErrCodeRateLimited, "telegram rate limited"),
			RetryAfter: retryAfter(resp),
		}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "telegram %s: status %d", method, resp.StatusCode),
		}
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(errors.ErrCodeNetwork,
			"telegram %s: status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

var _ Notifier = (*Telegram)(nil)
