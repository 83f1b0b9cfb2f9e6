// Package stats implements the numeric kernel of the monitor: anomaly
// and z-score computation against recorded history, the fixed-basis
// score used for percentiles, and the production-weighted stress index.
//
// All functions are pure and safe for concurrent use.
package stats

import "math"

// MinHistory is the number of historical observations required before
// anomaly and z-score are meaningful. Below this, both report zero so a
// freshly bootstrapped zone never alerts on noise.
const MinHistory = 5

// Fixed basis for the climatological z-score: the long-run mid-season
// NDVI mean and spread for corn-belt cropland.
const (
	BaselineMean   = 0.6
	BaselineStddev = 0.15
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stddev returns the sample standard deviation of values, or 0 when
// fewer than two values are given.
func Stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// Anomaly computes the relative anomaly (percent) and z-score of current
// against the history of past observations.
//
// Both values are 0 when history holds fewer than [MinHistory] entries,
// when the historical mean is 0, or when the spread is 0 (a flat
// history carries no signal about what is unusual).
func Anomaly(history []float64, current float64) (anomalyPct, zscore float64) {
	if len(history) < MinHistory {
		return 0, 0
	}
	mean := Mean(history)
	std := Stddev(history)
	if mean == 0 || std == 0 {
		return 0, 0
	}
	anomalyPct = round2((current - mean) / mean * 100)
	zscore = round2((current - mean) / std)
	return anomalyPct, zscore
}

// BaselineZ returns the z-score of ndvi against the fixed climatological
// basis. Used when a zone has too little recorded history for a proper
// anomaly, and for the percentile display.
func BaselineZ(ndvi float64) float64 {
	return (ndvi - BaselineMean) / BaselineStddev
}

// Percentile maps a z-score onto a 0-100 scale, clamped. This is a
// linear display approximation, not a normal CDF; it matches how the
// alerts have always been labeled.
func Percentile(z float64) int {
	p := 100 * (1 + z) / 2
	return int(math.Min(math.Max(p, 0), 100))
}

// WeightedIndex aggregates per-zone scores into a production-weighted
// index: Σ(score·weight)/Σweight. Returns 0 when the total weight is 0.
func WeightedIndex(scores, weights []float64) float64 {
	var sum, total float64
	for i, s := range scores {
		if i >= len(weights) {
			break
		}
		sum += s * weights[i]
		total += weights[i]
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
