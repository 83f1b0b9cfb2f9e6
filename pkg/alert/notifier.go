// Package alert delivers stress notifications to the channels growers
// actually watch. A [Notifier] sends one formatted message, optionally
// with a chart image attached; Multi fans a single alert out to every
// configured channel.
package alert

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Severity grades how hard a zone is flagged.
type Severity string

const (
	SeverityWatch    Severity = "watch"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one zone-level stress notification.
type Alert struct {
	Zone     string    `json:"zone"`
	Tier     string    `json:"tier"`
	Severity Severity  `json:"severity"`
	Date     time.Time `json:"date"`
	NDVI     float64   `json:"ndvi"`
	Expected float64   `json:"expected"`
	Anomaly  float64   `json:"anomaly_pct"`
	ZScore   float64   `json:"zscore"`
	Delta7d  float64   `json:"delta_7d"`
	Stage    string    `json:"stage"`
	Message  string    `json:"message"`
}

// Notifier delivers alerts and summaries to one channel.
type Notifier interface {
	// Notify sends a single zone alert.
	Notify(ctx context.Context, a Alert) error
	// Summary sends a free-form end-of-sweep message, with an optional
	// PNG chart. A nil or empty photo means text only.
	Summary(ctx context.Context, text string, photo []byte) error
}

// Multi fans out to several notifiers. Delivery failures are logged and
// collected but never block the remaining channels.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a Alert) error {
	var errs []string
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			log.FromContext(ctx).Error("alert delivery failed", "zone", a.Zone, "error", err)
			errs = append(errs, err.Error())
		}
	}
	return joined(errs)
}

func (m Multi) Summary(ctx context.Context, text string, photo []byte) error {
	var errs []string
	for _, n := range m {
		if err := n.Summary(ctx, text, photo); err != nil {
			log.FromContext(ctx).Error("summary delivery failed", "error", err)
			errs = append(errs, err.Error())
		}
	}
	return joined(errs)
}

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &deliveryError{msg: strings.Join(errs, "; ")}
}

type deliveryError struct{ msg string }

func (e *deliveryError) Error() string { return "alert delivery: " + e.msg }
