package alert

import (
	"fmt"
	"strings"
)

func severityIcon(s Severity) string {
	switch s {
	case SeverityCritical:
		return "🔴"
	case SeverityWarning:
		return "🟠"
	default:
		return "🟡"
	}
}

// FormatAlert renders a zone alert as the HTML-mode Telegram message
// growers receive.
func FormatAlert(a Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Crop stress: %s</b>\n", severityIcon(a.Severity), a.Zone)
	fmt.Fprintf(&b, "Producer tier: %s\n", a.Tier)
	fmt.Fprintf(&b, "Stage: %s\n\n", a.Stage)
	fmt.Fprintf(&b, "NDVI: <b>%.2f</b> (expected ≥ %.2f)\n", a.NDVI, a.Expected)
	fmt.Fprintf(&b, "Anomaly: %+.1f%%\n", a.Anomaly)
	fmt.Fprintf(&b, "Z-score: %+.2f\n", a.ZScore)
	fmt.Fprintf(&b, "7-day change: %+.2f\n", a.Delta7d)
	if a.Message != "" {
		fmt.Fprintf(&b, "\n%s", a.Message)
	}
	return b.String()
}
