package monitor

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cropsignal/cropsignal/pkg/alert"
	"github.com/cropsignal/cropsignal/pkg/config"
	"github.com/cropsignal/cropsignal/pkg/history"
)

type fakeFetcher struct {
	values map[string]float64 // "zone|date" -> NDVI
	calls  int
}

func fetchKey(zone string, date time.Time) string {
	return fmt.Sprintf("%s|%s", zone, date.Format(history.DateFormat))
}

func (f *fakeFetcher) FetchNDVI(ctx context.Context, zone config.Zone, date time.Time, refresh bool) (float64, error) {
	f.calls++
	v, ok := f.values[fetchKey(zone.Name, date)]
	if !ok {
		return 0, fmt.Errorf("no scene for %s on %s", zone.Name, date.Format(history.DateFormat))
	}
	return v, nil
}

type memStore struct {
	recs []history.Record
}

func (s *memStore) Append(ctx context.Context, rec history.Record) error {
	s.recs = append(s.recs, rec)
	return nil
}

func (s *memStore) Zone(ctx context.Context, name string) ([]history.Record, error) {
	var out []history.Record
	for _, r := range s.recs {
		if r.Zone == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) All(ctx context.Context) ([]history.Record, error) { return s.recs, nil }

func (s *memStore) LastAlert(ctx context.Context, name string) (time.Time, bool, error) {
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].Zone == name && s.recs[i].Alerted {
			return s.recs[i].Date, true, nil
		}
	}
	return time.Time{}, false, nil
}

func (s *memStore) Close(ctx context.Context) error { return nil }

type memNotifier struct {
	alerts    []alert.Alert
	summaries []string
	photos    [][]byte
}

func (n *memNotifier) Notify(ctx context.Context, a alert.Alert) error {
	n.alerts = append(n.alerts, a)
	return nil
}

func (n *memNotifier) Summary(ctx context.Context, text string, photo []byte) error {
	n.summaries = append(n.summaries, text)
	n.photos = append(n.photos, photo)
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse(history.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testConfig(zones ...config.Zone) config.Config {
	cfg := *config.Default()
	cfg.Zones = zones
	return cfg
}

func TestStageFor(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-05-05", "emergence"},   // DOY 125
		{"2026-06-01", "V8-V12"},      // DOY 152
		{"2026-07-01", "pre-silking"}, // DOY 182
		{"2026-09-10", "pre-silking"}, // DOY 253
	}
	for _, c := range cases {
		if got := StageFor(day(c.date)); got.Name != c.want {
			t.Errorf("StageFor(%s) = %s, want %s", c.date, got.Name, c.want)
		}
	}
}

func TestInSeason(t *testing.T) {
	if InSeason(day("2026-01-15")) {
		t.Error("January should be out of season")
	}
	if !InSeason(day("2026-07-01")) {
		t.Error("July should be in season")
	}
	if InSeason(day("2026-11-01")) {
		t.Error("November should be out of season")
	}
}

func TestSweepAlertsOnStress(t *testing.T) {
	zone := config.Zone{Name: "McLean, IL", Lat: 40.48, Lon: -88.99, Weight: 0.062}
	date := day("2026-07-01") // pre-silking, expected >= 0.70

	fetcher := &fakeFetcher{values: map[string]float64{
		fetchKey(zone.Name, date):                   0.45,
		fetchKey(zone.Name, date.AddDate(0, 0, -7)): 0.62,
	}}
	store := &memStore{}
	notifier := &memNotifier{}

	runner := NewRunner(testConfig(zone), fetcher, store, notifier)
	res, err := runner.Sweep(context.Background(), Options{Date: date})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if len(res.Observations) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(res.Observations))
	}
	obs := res.Observations[0]
	if !obs.Alerted {
		t.Fatal("expected the zone to alert: NDVI 0.45 under 0.70 with a -0.17 weekly drop")
	}
	if !obs.HasPrev || obs.Delta7d > -0.16 {
		t.Errorf("unexpected 7-day delta: has_prev=%v delta=%.2f", obs.HasPrev, obs.Delta7d)
	}

	if len(notifier.alerts) != 1 {
		t.Fatalf("expected 1 delivered alert, got %d", len(notifier.alerts))
	}
	a := notifier.alerts[0]
	if a.Zone != zone.Name || a.Stage != "pre-silking" || a.Expected != 0.70 {
		t.Errorf("unexpected alert: %+v", a)
	}
	if a.Tier != "large producer" {
		t.Errorf("unexpected tier %q", a.Tier)
	}

	if len(store.recs) != 1 || !store.recs[0].Alerted {
		t.Errorf("observation not persisted as alerted: %+v", store.recs)
	}
	if len(notifier.summaries) != 1 || !strings.Contains(notifier.summaries[0], "Alerts: 1") {
		t.Errorf("unexpected summary: %v", notifier.summaries)
	}
	if len(notifier.photos) != 1 || len(notifier.photos[0]) == 0 {
		t.Error("expected a report photo with the summary")
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
}

func TestSweepHealthyZoneStaysQuiet(t *testing.T) {
	zone := config.Zone{Name: "Story, IA", Lat: 42.04, Lon: -93.46, Weight: 0.045}
	date := day("2026-07-01")

	fetcher := &fakeFetcher{values: map[string]float64{
		fetchKey(zone.Name, date):                   0.74,
		fetchKey(zone.Name, date.AddDate(0, 0, -7)): 0.72,
	}}
	store := &memStore{}
	notifier := &memNotifier{}

	runner := NewRunner(testConfig(zone), fetcher, store, notifier)
	res, err := runner.Sweep(context.Background(), Options{Date: date})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(res.Alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(res.Alerts))
	}
	if len(store.recs) != 1 || store.recs[0].Alerted {
		t.Errorf("expected one quiet record, got %+v", store.recs)
	}
}

func TestSweepCooldownSuppressesRepeat(t *testing.T) {
	zone := config.Zone{Name: "McLean, IL", Lat: 40.48, Lon: -88.99, Weight: 0.062}
	date := day("2026-07-01")

	fetcher := &fakeFetcher{values: map[string]float64{
		fetchKey(zone.Name, date):                   0.45,
		fetchKey(zone.Name, date.AddDate(0, 0, -7)): 0.62,
	}}
	store := &memStore{recs: []history.Record{
		{Date: date.AddDate(0, 0, -3), Zone: zone.Name, NDVI: 0.44, Alerted: true},
	}}
	notifier := &memNotifier{}

	runner := NewRunner(testConfig(zone), fetcher, store, notifier)
	res, err := runner.Sweep(context.Background(), Options{Date: date})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(res.Alerts) != 0 {
		t.Error("alert should be suppressed inside the cooldown window")
	}

	// Force bypasses the cooldown.
	res, err = runner.Sweep(context.Background(), Options{Date: date, Force: true})
	if err != nil {
		t.Fatalf("forced Sweep: %v", err)
	}
	if len(res.Alerts) != 1 {
		t.Errorf("forced sweep should alert, got %d", len(res.Alerts))
	}
}

func TestSweepOutOfSeason(t *testing.T) {
	zone := config.Zone{Name: "McLean, IL", Lat: 40.48, Lon: -88.99, Weight: 0.062}
	date := day("2026-01-15")

	fetcher := &fakeFetcher{values: map[string]float64{}}
	runner := NewRunner(testConfig(zone), fetcher, &memStore{}, &memNotifier{})

	res, err := runner.Sweep(context.Background(), Options{Date: date})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if !res.OutOfSeason {
		t.Error("expected out-of-season result")
	}
	if fetcher.calls != 0 {
		t.Errorf("expected no fetches out of season, got %d", fetcher.calls)
	}
}

func TestSweepSkipsFailingZone(t *testing.T) {
	good := config.Zone{Name: "Story, IA", Lat: 42.04, Lon: -93.46, Weight: 0.045}
	bad := config.Zone{Name: "Lancaster, NE", Lat: 40.78, Lon: -96.69, Weight: 0.042}
	date := day("2026-07-01")

	fetcher := &fakeFetcher{values: map[string]float64{
		fetchKey(good.Name, date):                   0.74,
		fetchKey(good.Name, date.AddDate(0, 0, -7)): 0.72,
	}}
	store := &memStore{}

	runner := NewRunner(testConfig(bad, good), fetcher, store, &memNotifier{})
	res, err := runner.Sweep(context.Background(), Options{Date: date})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(res.Observations) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected 1 observation and 1 skip, got %d and %d", len(res.Observations), len(res.Skipped))
	}
	if !strings.Contains(res.Skipped[0], bad.Name) {
		t.Errorf("skip entry should name the zone: %q", res.Skipped[0])
	}
}

func TestSchedulerUntilNext(t *testing.T) {
	s := NewScheduler(nil, 18)
	s.now = func() time.Time { return time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC) }
	if got := s.untilNext(); got != 6*time.Hour {
		t.Errorf("expected 6h until sweep, got %v", got)
	}

	s.now = func() time.Time { return time.Date(2026, 7, 1, 20, 0, 0, 0, time.UTC) }
	if got := s.untilNext(); got != 22*time.Hour {
		t.Errorf("expected 22h until sweep, got %v", got)
	}
}

func TestSchedulerSweepsOnStartup(t *testing.T) {
	zone := config.Zone{Name: "Story, IA", Lat: 42.04, Lon: -93.46, Weight: 0.045}
	store := &memStore{}
	runner := NewRunner(testConfig(zone), &fakeFetcher{}, store, nil)

	// A cancelled context lets the startup sweep run to completion (the
	// fetcher has no scenes, so every zone is skipped) and then stops
	// the loop before the first timer fires.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(runner, 18)
	if err := s.Run(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewSchedulerClampsHour(t *testing.T) {
	if s := NewScheduler(nil, -1); s.hour != DefaultSweepHour {
		t.Errorf("expected fallback hour, got %d", s.hour)
	}
	if s := NewScheduler(nil, 25); s.hour != DefaultSweepHour {
		t.Errorf("expected fallback hour, got %d", s.hour)
	}
}
