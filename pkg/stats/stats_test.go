package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %g", got)
	}
	if got := Mean([]float64{0.5, 0.6, 0.7}); !almostEqual(got, 0.6) {
		t.Errorf("Mean = %g, want 0.6", got)
	}
}

func TestStddev(t *testing.T) {
	if got := Stddev([]float64{0.5}); got != 0 {
		t.Errorf("Stddev of single value = %g", got)
	}
	// Sample stddev of {2,4,4,4,5,5,7,9} is ~2.138.
	got := Stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2.138) > 0.01 {
		t.Errorf("Stddev = %g, want ~2.138", got)
	}
}

func TestAnomalyRequiresHistory(t *testing.T) {
	short := []float64{0.6, 0.6, 0.6, 0.6} // one below MinHistory
	a, z := Anomaly(short, 0.2)
	if a != 0 || z != 0 {
		t.Errorf("short history should report zero, got anomaly=%g z=%g", a, z)
	}
}

func TestAnomalyFlatHistory(t *testing.T) {
	flat := []float64{0.6, 0.6, 0.6, 0.6, 0.6}
	a, z := Anomaly(flat, 0.3)
	if a != 0 || z != 0 {
		t.Errorf("zero-spread history should report zero, got anomaly=%g z=%g", a, z)
	}
}

func TestAnomalyDrop(t *testing.T) {
	history := []float64{0.60, 0.62, 0.58, 0.61, 0.59}
	a, z := Anomaly(history, 0.45)
	if a >= 0 {
		t.Errorf("anomaly should be negative for a drop, got %g", a)
	}
	if z >= 0 {
		t.Errorf("z-score should be negative for a drop, got %g", z)
	}
	// mean = 0.60, so anomaly = (0.45-0.60)/0.60*100 = -25%.
	if math.Abs(a-(-25)) > 0.5 {
		t.Errorf("anomaly = %g, want ~-25", a)
	}
}

func TestBaselineZ(t *testing.T) {
	if got := BaselineZ(0.6); !almostEqual(got, 0) {
		t.Errorf("BaselineZ(0.6) = %g, want 0", got)
	}
	if got := BaselineZ(0.45); !almostEqual(got, -1) {
		t.Errorf("BaselineZ(0.45) = %g, want -1", got)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		z    float64
		want int
	}{
		{0, 50},
		{1, 100},
		{-1, 0},
		{5, 100},   // clamped
		{-3.2, 0},  // clamped
		{0.5, 75},
	}
	for _, tt := range tests {
		if got := Percentile(tt.z); got != tt.want {
			t.Errorf("Percentile(%g) = %d, want %d", tt.z, got, tt.want)
		}
	}
}

func TestWeightedIndex(t *testing.T) {
	scores := []float64{-2, 0, 1}
	weights := []float64{0.5, 0.3, 0.2}
	// (-2*0.5 + 0*0.3 + 1*0.2) / 1.0 = -0.8
	if got := WeightedIndex(scores, weights); !almostEqual(got, -0.8) {
		t.Errorf("WeightedIndex = %g, want -0.8", got)
	}
	if got := WeightedIndex(nil, nil); got != 0 {
		t.Errorf("WeightedIndex of empty = %g", got)
	}
	if got := WeightedIndex([]float64{1}, []float64{0}); got != 0 {
		t.Errorf("zero total weight should give 0, got %g", got)
	}
}
