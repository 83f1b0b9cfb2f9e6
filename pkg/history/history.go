// Package history persists NDVI observations so that anomaly statistics
// and alert cooldowns survive restarts.
//
// Two backends satisfy [Store]: a CSV file (the default, one row per
// observation) and MongoDB for server deployments. [ExportCSV] produces
// the canonical CSV form regardless of backend, which is what the
// /v1/history.csv endpoint and `cropsignal history export` serve.
package history

import (
	"context"
	"time"
)

// DateFormat is the on-disk date layout.
const DateFormat = "2006-01-02"

// Record is one NDVI observation for a zone.
type Record struct {
	Date    time.Time `bson:"date"`
	Zone    string    `bson:"zone"`
	NDVI    float64   `bson:"ndvi"`
	Anomaly float64   `bson:"anomaly"`
	ZScore  float64   `bson:"zscore"`
	// Alerted marks records that triggered an alert; used for the
	// per-zone cooldown.
	Alerted bool `bson:"alerted"`
}

// Store persists observation records.
type Store interface {
	// Append adds a record.
	Append(ctx context.Context, rec Record) error

	// Zone returns all records for a zone, oldest first.
	Zone(ctx context.Context, name string) ([]Record, error)

	// All returns every record, oldest first.
	All(ctx context.Context) ([]Record, error)

	// LastAlert returns the time of the most recent alerted record for
	// a zone. The second return value is false when the zone has never
	// alerted.
	LastAlert(ctx context.Context, name string) (time.Time, bool, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NDVIValues extracts the NDVI series from records, preserving order.
func NDVIValues(recs []Record) []float64 {
	values := make([]float64, len(recs))
	for i, r := range recs {
		values[i] = r.NDVI
	}
	return values
}
