package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cropsignal/cropsignal/pkg/alert"
	"github.com/cropsignal/cropsignal/pkg/chart"
	"github.com/cropsignal/cropsignal/pkg/config"
	"github.com/cropsignal/cropsignal/pkg/history"
	"github.com/cropsignal/cropsignal/pkg/observability"
	"github.com/cropsignal/cropsignal/pkg/sentinel"
	"github.com/cropsignal/cropsignal/pkg/stats"
)

// Runner executes sweeps over the configured zones.
type Runner struct {
	cfg      config.Config
	fetcher  sentinel.Fetcher
	store    history.Store
	notifier alert.Notifier
	webhook  *alert.Webhook
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithWebhook attaches a spreadsheet webhook that receives one row per
// observation in addition to any alerts.
func WithWebhook(w *alert.Webhook) RunnerOption {
	return func(r *Runner) { r.webhook = w }
}

// NewRunner wires a sweep runner. notifier may be nil when the caller
// only wants observations recorded.
func NewRunner(cfg config.Config, fetcher sentinel.Fetcher, store history.Store, notifier alert.Notifier, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg, fetcher: fetcher, store: store, notifier: notifier}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Options control a single sweep.
type Options struct {
	// Date is the observation date; zero means today.
	Date time.Time
	// Force runs outside the growing season and bypasses alert
	// cooldowns.
	Force bool
	// Refresh bypasses the fetch cache.
	Refresh bool
}

// Observation is one zone's result within a sweep.
type Observation struct {
	Zone    config.Zone `json:"zone"`
	Date    time.Time   `json:"date"`
	NDVI    float64     `json:"ndvi"`
	Anomaly float64     `json:"anomaly_pct"`
	ZScore  float64     `json:"zscore"`
	Delta7d float64     `json:"delta_7d"`
	HasPrev bool        `json:"has_prev"`
	// Percentile places NDVI on the fixed climatological basis; unlike
	// the anomaly stats it is meaningful even with a short history.
	Percentile int   `json:"percentile"`
	Stage      Stage `json:"stage"`
	Alerted    bool  `json:"alerted"`
}

// Result is a completed sweep.
type Result struct {
	RunID        string        `json:"run_id"`
	Date         time.Time     `json:"date"`
	Observations []Observation `json:"observations"`
	Alerts       []alert.Alert `json:"alerts"`
	StressIndex  float64       `json:"stress_index"`
	OutOfSeason  bool          `json:"out_of_season"`
	Skipped      []string      `json:"skipped,omitempty"`
}

// Sweep fetches every zone, evaluates stress, persists observations, and
// delivers alerts plus an end-of-sweep summary. Zone-level failures are
// logged and listed in Result.Skipped; only infrastructure failures
// return an error.
func (r *Runner) Sweep(ctx context.Context, opts Options) (*Result, error) {
	logger := log.FromContext(ctx)

	date := opts.Date
	if date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	res := &Result{RunID: uuid.NewString(), Date: date}
	logger.Info("sweep started", "run_id", res.RunID, "date", date.Format(history.DateFormat), "zones", len(r.cfg.Zones))
	observability.Sweep().OnSweepStart(ctx, date)
	started := time.Now()

	if !InSeason(date) && !opts.Force {
		res.OutOfSeason = true
		logger.Info("outside growing season, nothing to do", "doy", date.YearDay())
		observability.Sweep().OnSweepComplete(ctx, 0, 0, time.Since(started), nil)
		return res, nil
	}

	stage := StageFor(date)
	var zscores, weights []float64

	for _, zone := range r.cfg.Zones {
		obs, err := r.observe(ctx, zone, date, stage, opts)
		if err != nil {
			logger.Warn("zone skipped", "zone", zone.Name, "error", err)
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", zone.Name, err))
			continue
		}
		res.Observations = append(res.Observations, obs)
		zscores = append(zscores, obs.ZScore)
		weights = append(weights, zone.Weight)
		observability.Sweep().OnZoneObserved(ctx, zone.Name, obs.NDVI, obs.Alerted)

		if obs.Alerted {
			a := r.buildAlert(obs)
			res.Alerts = append(res.Alerts, a)
			if r.notifier != nil {
				if err := r.notifier.Notify(ctx, a); err != nil {
					logger.Error("alert not delivered", "zone", zone.Name, "error", err)
				}
			}
		}
	}

	res.StressIndex = stats.WeightedIndex(zscores, weights)

	if r.notifier != nil && len(res.Observations) > 0 {
		if err := r.notifier.Summary(ctx, r.summaryText(res), r.reportPhoto(res)); err != nil {
			logger.Error("summary not delivered", "error", err)
		}
	}

	observability.Sweep().OnSweepComplete(ctx, len(res.Observations), len(res.Alerts), time.Since(started), nil)
	logger.Info("sweep finished",
		"run_id", res.RunID,
		"observed", len(res.Observations),
		"alerts", len(res.Alerts),
		"skipped", len(res.Skipped),
		"stress_index", fmt.Sprintf("%.2f", res.StressIndex))
	return res, nil
}

func (r *Runner) observe(ctx context.Context, zone config.Zone, date time.Time, stage Stage, opts Options) (Observation, error) {
	logger := log.FromContext(ctx)

	ndvi, err := r.fetcher.FetchNDVI(ctx, zone, date, opts.Refresh)
	if err != nil {
		return Observation{}, err
	}

	obs := Observation{Zone: zone, Date: date, NDVI: ndvi, Stage: stage}
	obs.Percentile = stats.Percentile(stats.BaselineZ(ndvi))

	// A missing prior scene only costs us the 7-day trend signal.
	prev, err := r.fetcher.FetchNDVI(ctx, zone, date.AddDate(0, 0, -7), opts.Refresh)
	if err == nil {
		obs.HasPrev = true
		obs.Delta7d = ndvi - prev
	} else {
		logger.Debug("no scene a week back", "zone", zone.Name, "error", err)
	}

	past, err := r.store.Zone(ctx, zone.Name)
	if err != nil {
		return Observation{}, err
	}
	obs.Anomaly, obs.ZScore = stats.Anomaly(history.NDVIValues(past), ndvi)

	obs.Alerted, err = r.evaluate(ctx, obs, opts)
	if err != nil {
		return Observation{}, err
	}

	rec := history.Record{
		Date:    date,
		Zone:    zone.Name,
		NDVI:    ndvi,
		Anomaly: obs.Anomaly,
		ZScore:  obs.ZScore,
		Alerted: obs.Alerted,
	}
	if err := r.store.Append(ctx, rec); err != nil {
		return Observation{}, err
	}

	if r.webhook != nil {
		row := alert.WebhookRow{
			Date:    date.Format(history.DateFormat),
			Zone:    zone.Name,
			Tier:    string(zone.Tier()),
			NDVI:    ndvi,
			Anomaly: obs.Anomaly,
			ZScore:  obs.ZScore,
			Delta7d: obs.Delta7d,
			Stage:   stage.Name,
			Alerted: obs.Alerted,
		}
		if err := r.webhook.PushRow(ctx, row); err != nil {
			logger.Warn("row not pushed", "zone", zone.Name, "error", err)
		}
	}

	return obs, nil
}

// evaluate applies the stress rule: NDVI under the stage minimum plus at
// least one corroborating signal, gated by the alert cooldown.
func (r *Runner) evaluate(ctx context.Context, obs Observation, opts Options) (bool, error) {
	if opts.Force {
		return true, nil
	}
	if obs.NDVI >= obs.Stage.MinNDVI {
		return false, nil
	}
	if r.triggers(obs) == 0 {
		return false, nil
	}

	last, ok, err := r.store.LastAlert(ctx, obs.Zone.Name)
	if err != nil {
		return false, err
	}
	if ok {
		cooldown := time.Duration(r.cfg.Thresholds.CooldownDays) * 24 * time.Hour
		if obs.Date.Sub(last) < cooldown {
			log.FromContext(ctx).Info("alert suppressed by cooldown",
				"zone", obs.Zone.Name, "last_alert", last.Format(history.DateFormat))
			return false, nil
		}
	}
	return true, nil
}

func (r *Runner) triggers(obs Observation) int {
	t := r.cfg.Thresholds
	n := 0
	if obs.Anomaly <= t.AnomalyPct {
		n++
	}
	if obs.ZScore <= t.ZScore {
		n++
	}
	if obs.HasPrev && obs.Delta7d <= t.Delta7d {
		n++
	}
	return n
}

func (r *Runner) buildAlert(obs Observation) alert.Alert {
	sev := alert.SeverityWatch
	switch r.triggers(obs) {
	case 1:
		sev = alert.SeverityWarning
	case 2, 3:
		sev = alert.SeverityCritical
	}
	return alert.Alert{
		Zone:     obs.Zone.Name,
		Tier:     string(obs.Zone.Tier()),
		Severity: sev,
		Date:     obs.Date,
		NDVI:     obs.NDVI,
		Expected: obs.Stage.MinNDVI,
		Anomaly:  obs.Anomaly,
		ZScore:   obs.ZScore,
		Delta7d:  obs.Delta7d,
		Stage:    obs.Stage.Name,
	}
}

func (r *Runner) summaryText(res *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌽 <b>Corn belt sweep</b> — %s\n", res.Date.Format(history.DateFormat))
	fmt.Fprintf(&b, "Zones observed: %d", len(res.Observations))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(&b, " (%d skipped)", len(res.Skipped))
	}
	fmt.Fprintf(&b, "\nAlerts: %d\n", len(res.Alerts))
	fmt.Fprintf(&b, "Production-weighted z: %+.2f", res.StressIndex)
	if res.StressIndex <= r.cfg.Thresholds.StressIndex {
		b.WriteString("\n⚠️ <b>Region-wide stress</b>")
		if len(res.Alerts) >= 5 {
			b.WriteString(" — possible supply impact, worth a closer look")
		}
	}
	return b.String()
}

func (r *Runner) reportPhoto(res *Result) []byte {
	rep := chart.Report{Title: "Corn belt sweep", Date: res.Date}
	for _, obs := range res.Observations {
		rep.Bars = append(rep.Bars, chart.Bar{
			Zone:     obs.Zone.Name,
			NDVI:     obs.NDVI,
			Expected: obs.Stage.MinNDVI,
			Alerted:  obs.Alerted,
		})
	}
	png, err := chart.RenderReportPNG(rep)
	if err != nil {
		return nil
	}
	return png
}
