package alert

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testAlert() Alert {
	return Alert{
		Zone:     "McLean, IL",
		Tier:     "large producer",
		Severity: SeverityCritical,
		Date:     time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		NDVI:     0.48,
		Expected: 0.70,
		Anomaly:  -22.6,
		ZScore:   -1.8,
		Delta7d:  -0.14,
		Stage:    "pre-silking",
	}
}

func TestFormatAlert(t *testing.T) {
	msg := FormatAlert(testAlert())
	for _, want := range []string{
		"Crop stress: McLean, IL",
		"large producer",
		"pre-silking",
		"0.48",
		"-22.6%",
		"-1.80",
		"-0.14",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestTelegramNotify(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("123:abc", "42", WithTelegramBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewTelegram: %v", err)
	}
	if err := tg.Notify(context.Background(), testAlert()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotBody["chat_id"] != "42" || gotBody["parse_mode"] != "HTML" {
		t.Errorf("unexpected body: %v", gotBody)
	}
	if !strings.Contains(gotBody["text"], "McLean, IL") {
		t.Errorf("alert text missing zone: %q", gotBody["text"])
	}
}

func TestTelegramSummaryWithPhoto(t *testing.T) {
	var gotPath, gotCaption string
	var gotPhoto []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotCaption = r.FormValue("caption")
		if f, _, err := r.FormFile("photo"); err == nil {
			gotPhoto, _ = io.ReadAll(f)
			f.Close()
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("123:abc", "42", WithTelegramBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewTelegram: %v", err)
	}
	photo := []byte{0x89, 'P', 'N', 'G'}
	if err := tg.Summary(context.Background(), "sweep done", photo); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if gotPath != "/bot123:abc/sendPhoto" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotCaption != "sweep done" {
		t.Errorf("unexpected caption %q", gotCaption)
	}
	if string(gotPhoto) != string(photo) {
		t.Errorf("photo bytes did not round-trip")
	}
}

func TestTelegramRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("123:abc", "42", WithTelegramBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewTelegram: %v", err)
	}
	if err := tg.Notify(context.Background(), testAlert()); err != nil {
		t.Fatalf("Notify after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestTelegramBadRequestIsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("123:abc", "42", WithTelegramBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewTelegram: %v", err)
	}
	err = tg.Notify(context.Background(), testAlert())
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error missing server detail: %v", err)
	}
}

func TestNewTelegramRequiresCredentials(t *testing.T) {
	if _, err := NewTelegram("", "42"); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := NewTelegram("123:abc", ""); err == nil {
		t.Error("expected error for empty chat id")
	}
}

func TestWebhookPushRow(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh, err := NewWebhook(srv.URL)
	if err != nil {
		t.Fatalf("NewWebhook: %v", err)
	}
	row := WebhookRow{Date: "2026-06-08", Zone: "McLean, IL", Tier: "large producer", NDVI: 0.48, Alerted: true}
	if err := wh.PushRow(context.Background(), row); err != nil {
		t.Fatalf("PushRow: %v", err)
	}
	if got["kind"] != "row" {
		t.Errorf("unexpected kind %v", got["kind"])
	}
	rowMap, _ := got["row"].(map[string]any)
	if rowMap["zone"] != "McLean, IL" || rowMap["alerted"] != true {
		t.Errorf("unexpected row payload: %v", rowMap)
	}
}

type fakeNotifier struct {
	alerts    int
	summaries int
	fail      bool
}

func (f *fakeNotifier) Notify(ctx context.Context, a Alert) error {
	f.alerts++
	if f.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (f *fakeNotifier) Summary(ctx context.Context, text string, photo []byte) error {
	f.summaries++
	if f.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func TestMultiDeliversToAllDespiteFailure(t *testing.T) {
	bad := &fakeNotifier{fail: true}
	good := &fakeNotifier{}
	m := Multi{bad, good}

	err := m.Notify(context.Background(), testAlert())
	if err == nil {
		t.Error("expected aggregated error")
	}
	if bad.alerts != 1 || good.alerts != 1 {
		t.Errorf("expected both notifiers called, got bad=%d good=%d", bad.alerts, good.alerts)
	}

	if err := m.Summary(context.Background(), "ok", nil); err == nil {
		t.Error("expected aggregated error")
	}
	if good.summaries != 1 {
		t.Errorf("expected summary on good notifier, got %d", good.summaries)
	}
}
