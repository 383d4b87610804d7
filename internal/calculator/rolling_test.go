package calculator

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRollingMean_ExpandingWarmup(t *testing.T) {
	values := []float64{2, 4, 6, 8}
	out, err := RollingMean(values, 20) // window larger than series
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{2, 3, 4, 5} // mean of values[0..i]
	for i := range want {
		if !almostEqual(out[i], want[i], 1e-12) {
			t.Errorf("index %d: expected %.4f, got %.4f", i, want[i], out[i])
		}
	}
}

func TestRollingMean_FixedWindow(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out, err := RollingMean(values, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	for i := range want {
		if !almostEqual(out[i], want[i], 1e-12) {
			t.Errorf("index %d: expected %.4f, got %.4f", i, want[i], out[i])
		}
	}
}

func TestRollingStdDev_Population(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	out, err := RollingStdDev(values, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Population std of two values one apart is 0.5 (sample std would be ~0.707).
	want := []float64{0, 0.5, 0.5, 0.5}
	for i := range want {
		if !almostEqual(out[i], want[i], 1e-12) {
			t.Errorf("index %d: expected %.4f, got %.4f", i, want[i], out[i])
		}
	}
}

func TestRollingStdDev_ExpandingPrefix(t *testing.T) {
	values := []float64{3, 7, 11}
	out, err := RollingStdDev(values, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// At each warm-up index the std must cover the whole prefix.
	if out[0] != 0 {
		t.Errorf("single-value std should be 0, got %.6f", out[0])
	}
	if !almostEqual(out[1], 2, 1e-12) { // {3,7}: mean 5, deviations ±2
		t.Errorf("expected 2, got %.6f", out[1])
	}
	wantLast := math.Sqrt((16.0 + 0 + 16.0) / 3.0) // {3,7,11}: mean 7
	if !almostEqual(out[2], wantLast, 1e-12) {
		t.Errorf("expected %.6f, got %.6f", wantLast, out[2])
	}
}

func TestRolling_EmptyInput(t *testing.T) {
	mean, err := RollingMean(nil, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mean) != 0 {
		t.Errorf("expected empty output, got %d values", len(mean))
	}
	std, err := RollingStdDev([]float64{}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(std) != 0 {
		t.Errorf("expected empty output, got %d values", len(std))
	}
}

func TestRolling_BadWindow(t *testing.T) {
	if _, err := RollingMean([]float64{1}, 0); err == nil {
		t.Error("expected error for zero window")
	}
	if _, err := RollingStdDev([]float64{1}, -1); err == nil {
		t.Error("expected error for negative window")
	}
	if _, err := RollingQuantile([]float64{1}, 0, 0.25); err == nil {
		t.Error("expected error for zero window")
	}
	if _, err := RollingQuantile([]float64{1}, 2, 1.5); err == nil {
		t.Error("expected error for out-of-range quantile")
	}
}

func TestRollingQuantile_Interpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	out, err := RollingQuantile(values, 4, 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Linear interpolation between order statistics.
	want := []float64{1, 1.25, 1.5, 1.75}
	for i := range want {
		if !almostEqual(out[i], want[i], 1e-12) {
			t.Errorf("index %d: expected %.4f, got %.4f", i, want[i], out[i])
		}
	}
}

func TestRollingQuantile_SkipsNaN(t *testing.T) {
	values := []float64{math.NaN(), 2, 4}
	out, err := RollingQuantile(values, 3, 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(out[0]) {
		t.Errorf("window of only NaN should yield NaN, got %.4f", out[0])
	}
	if !almostEqual(out[1], 2, 1e-12) {
		t.Errorf("expected 2, got %.4f", out[1])
	}
	if !almostEqual(out[2], 2.5, 1e-12) {
		t.Errorf("expected 2.5, got %.4f", out[2])
	}
}
