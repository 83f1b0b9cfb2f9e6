package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCSVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore(filepath.Join(t.TempDir(), "history.csv"))

	recs := []Record{
		{Date: day("2026-06-01"), Zone: "McLean, IL", NDVI: 0.62, Anomaly: -3.1, ZScore: -0.4},
		{Date: day("2026-06-08"), Zone: "McLean, IL", NDVI: 0.48, Anomaly: -22.6, ZScore: -1.8, Alerted: true},
		{Date: day("2026-06-08"), Zone: "Story, IA", NDVI: 0.71, Anomaly: 4.2, ZScore: 0.5},
	}
	for _, rec := range recs {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	for i, rec := range all {
		if rec != recs[i] {
			t.Errorf("record %d: got %+v, want %+v", i, rec, recs[i])
		}
	}

	zone, err := store.Zone(ctx, "McLean, IL")
	if err != nil {
		t.Fatalf("Zone: %v", err)
	}
	if len(zone) != 2 {
		t.Fatalf("expected 2 zone records, got %d", len(zone))
	}
	if got := NDVIValues(zone); got[0] != 0.62 || got[1] != 0.48 {
		t.Errorf("unexpected NDVI series: %v", got)
	}
}

func TestCSVStoreEmptyFile(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"))

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All on missing file: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no records, got %d", len(all))
	}
}

func TestCSVStoreLastAlert(t *testing.T) {
	ctx := context.Background()
	store := NewCSVStore(filepath.Join(t.TempDir(), "history.csv"))

	if _, ok, err := store.LastAlert(ctx, "McLean, IL"); err != nil || ok {
		t.Fatalf("expected no alert on empty store, got ok=%v err=%v", ok, err)
	}

	appendAll := []Record{
		{Date: day("2026-05-20"), Zone: "McLean, IL", NDVI: 0.40, Alerted: true},
		{Date: day("2026-05-27"), Zone: "McLean, IL", NDVI: 0.55},
		{Date: day("2026-05-27"), Zone: "Story, IA", NDVI: 0.30, Alerted: true},
	}
	for _, rec := range appendAll {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	when, ok, err := store.LastAlert(ctx, "McLean, IL")
	if err != nil {
		t.Fatalf("LastAlert: %v", err)
	}
	if !ok || !when.Equal(day("2026-05-20")) {
		t.Errorf("got %v ok=%v, want 2026-05-20 ok=true", when, ok)
	}
}

func TestCSVStoreLegacyLayout(t *testing.T) {
	// Files written before the alerted column existed must still load.
	path := filepath.Join(t.TempDir(), "history.csv")
	legacy := "date,zone,ndvi,anomaly,zscore\n2026-04-10,\"McLean, IL\",0.52,-8.5,-0.9\n"
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewCSVStore(path)
	all, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	if all[0].NDVI != 0.52 || all[0].Alerted {
		t.Errorf("unexpected record: %+v", all[0])
	}
}

func TestExportCSV(t *testing.T) {
	out, err := ExportCSV([]Record{
		{Date: day("2026-06-01"), Zone: "McLean, IL", NDVI: 0.62, Anomaly: -3.1, ZScore: -0.4},
	})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "date,zone,ndvi,anomaly,zscore,alerted" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != `2026-06-01,"McLean, IL",0.62,-3.1,-0.4,false` {
		t.Errorf("unexpected row: %q", lines[1])
	}
}
