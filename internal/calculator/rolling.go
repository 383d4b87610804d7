package calculator

import (
	"errors"
	"math"
	"sort"
)

// Rolling statistics with an expanding warm-up: at index i the window covers the
// min(i+1, window) most recent values, so the first window-1 outputs are computed
// over all available history instead of being left undefined.

// RollingMean computes the rolling mean of values over the given window.
func RollingMean(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(i-start+1)
	}
	return out, nil
}

// RollingStdDev computes the rolling population standard deviation (denominator
// is the count, not count-1) of values over the given window.
func RollingStdDev(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		n := float64(i - start + 1)
		mean := 0.0
		for j := start; j <= i; j++ {
			mean += values[j]
		}
		mean /= n
		variance := 0.0
		for j := start; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / n)
	}
	return out, nil
}

// RollingQuantile computes the rolling q-quantile of values over the given window
// using linear interpolation between order statistics. NaN values inside the
// window are ignored; a window with no valid values yields NaN.
func RollingQuantile(values []float64, window int, q float64) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	if q < 0 || q > 1 {
		return nil, errors.New("quantile must be in [0, 1]")
	}
	out := make([]float64, len(values))
	buf := make([]float64, 0, window)
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		buf = buf[:0]
		for j := start; j <= i; j++ {
			if !math.IsNaN(values[j]) {
				buf = append(buf, values[j])
			}
		}
		out[i] = quantile(buf, q)
	}
	return out, nil
}

// quantile returns the interpolated q-quantile of vals. vals may be modified.
func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	h := q * float64(len(vals)-1)
	lo := int(math.Floor(h))
	if lo >= len(vals)-1 {
		return vals[len(vals)-1]
	}
	frac := h - float64(lo)
	return vals[lo] + frac*(vals[lo+1]-vals[lo])
}
