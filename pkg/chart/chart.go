// Package chart renders NDVI history and sweep reports as images. Two
// shapes are supported: a per-zone line chart of NDVI over time against
// the expected stage threshold, and a bar report comparing every zone in
// one sweep. Each shape has an SVG sink for the HTTP API and a PNG sink
// for Telegram.
package chart

import (
	"time"

	"github.com/cropsignal/cropsignal/pkg/history"
)

// Point is one dated NDVI observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is a zone's NDVI history plus the stage threshold to draw as a
// reference line.
type Series struct {
	Zone      string
	Threshold float64
	Points    []Point
}

// SeriesFromRecords builds a chartable series from history records,
// which arrive oldest first.
func SeriesFromRecords(zone string, recs []history.Record, threshold float64) Series {
	s := Series{Zone: zone, Threshold: threshold}
	for _, r := range recs {
		if r.Zone != zone {
			continue
		}
		s.Points = append(s.Points, Point{Date: r.Date, Value: r.NDVI})
	}
	return s
}

// Bar is one zone's standing in a sweep report.
type Bar struct {
	Zone     string
	NDVI     float64
	Expected float64
	Alerted  bool
}

// Report is a whole sweep rendered as one bar chart.
type Report struct {
	Title string
	Date  time.Time
	Bars  []Bar
}

// healthy reports whether the bar clears its stage threshold.
func (b Bar) healthy() bool { return b.NDVI >= b.Expected }

func (s Series) valueRange() (lo, hi float64) {
	lo, hi = s.Threshold, s.Threshold
	for _, p := range s.Points {
		if p.Value < lo {
			lo = p.Value
		}
		if p.Value > hi {
			hi = p.Value
		}
	}
	// NDVI lives in [-1, 1] but cropland stays well inside; pad so the
	// line never touches the frame.
	lo -= 0.05
	hi += 0.05
	if hi-lo < 0.2 {
		mid := (hi + lo) / 2
		lo, hi = mid-0.1, mid+0.1
	}
	return lo, hi
}
