package engine

import (
	"math"
	"testing"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestMean(t *testing.T) {
	if got := mean([]float64{2, 4, 4, 4, 5, 5, 7, 9}); !approx(got, 5) {
		t.Errorf("mean = %f, want 5", got)
	}
	if got := mean(nil); got != 0 {
		t.Errorf("mean(nil) = %f, want 0", got)
	}
}

func TestVariance(t *testing.T) {
	// Sample variance: sum of squared deviations 32 over n-1 = 7.
	if got := variance([]float64{2, 4, 4, 4, 5, 5, 7, 9}); !approx(got, 32.0/7.0) {
		t.Errorf("variance = %f, want %f", got, 32.0/7.0)
	}
	if got := variance([]float64{3}); got != 0 {
		t.Errorf("variance of one element = %f, want 0", got)
	}
	if got := stdev([]float64{5, 5, 5}); got != 0 {
		t.Errorf("stdev of constant series = %f, want 0", got)
	}
}

func TestCovariance(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{2, 4, 6, 8}
	if got := covariance(xs, ys); !approx(got, 2*variance(xs)) {
		t.Errorf("covariance = %f, want %f", got, 2*variance(xs))
	}
	if got := covariance(xs, ys[:3]); got != 0 {
		t.Errorf("covariance with mismatched lengths = %f, want 0", got)
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{-0.05, -0.02, 0.01, 0.03, -0.10}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"fifth percentile of five elements is the minimum", 0.05, -0.10},
		{"median", 0.5, -0.02},
		{"full rank is the maximum", 1, 0.03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(xs, tt.p); !approx(got, tt.want) {
				t.Errorf("percentile(%f) = %f, want %f", tt.p, got, tt.want)
			}
		})
	}

	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %f, want 0", got)
	}

	// Input is not reordered.
	if xs[0] != -0.05 || xs[4] != -0.10 {
		t.Errorf("percentile mutated its input: %v", xs)
	}
}
