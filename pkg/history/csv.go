package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// csvHeader is the canonical column layout. Existing history files from
// earlier deployments without the alerted column still load.
var csvHeader = []string{"date", "zone", "ndvi", "anomaly", "zscore", "alerted"}

// CSVStore is a file-backed [Store]. Appends go straight to disk so a
// crash between sweeps loses nothing. Reads parse the whole file; at one
// row per zone per day this stays trivially small for years.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSVStore creates a store writing to path. The file is created lazily
// on first append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string { return s.path }

// Append adds a record to the file, writing the header first when the
// file is new.
func (s *CSVStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	if err := w.Write(encodeRow(rec)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Zone returns all records for a zone, oldest first.
func (s *CSVStore) Zone(ctx context.Context, name string) ([]Record, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var recs []Record
	for _, r := range all {
		if r.Zone == name {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

// All returns every record in file order (append order, hence oldest
// first).
func (s *CSVStore) All(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parseCSV(data)
}

// LastAlert returns the most recent alerted record time for a zone.
func (s *CSVStore) LastAlert(ctx context.Context, name string) (time.Time, bool, error) {
	recs, err := s.Zone(ctx, name)
	if err != nil {
		return time.Time{}, false, err
	}
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Alerted {
			return recs[i].Date, true, nil
		}
	}
	return time.Time{}, false, nil
}

// Close is a no-op; every append already closes the file.
func (s *CSVStore) Close(ctx context.Context) error { return nil }

var _ Store = (*CSVStore)(nil)

// ExportCSV renders records in the canonical CSV form.
func ExportCSV(recs []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range recs {
		if err := w.Write(encodeRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRow(rec Record) []string {
	return []string{
		rec.Date.UTC().Format(DateFormat),
		rec.Zone,
		strconv.FormatFloat(rec.NDVI, 'f', -1, 64),
		strconv.FormatFloat(rec.Anomaly, 'f', -1, 64),
		strconv.FormatFloat(rec.ZScore, 'f', -1, 64),
		strconv.FormatBool(rec.Alerted),
	}
}

func parseCSV(data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // tolerate the pre-alerted layout

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var recs []Record
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "date" {
			continue // header
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("history row %d: want at least 5 fields, got %d", i+1, len(row))
		}
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i+1, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func decodeRow(row []string) (Record, error) {
	date, err := time.Parse(DateFormat, row[0])
	if err != nil {
		return Record{}, err
	}
	ndvi, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Record{}, err
	}
	anomaly, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return Record{}, err
	}
	zscore, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Date: date, Zone: row[1], NDVI: ndvi, Anomaly: anomaly, ZScore: zscore}
	if len(row) > 5 {
		rec.Alerted, _ = strconv.ParseBool(row[5])
	}
	return rec, nil
}
