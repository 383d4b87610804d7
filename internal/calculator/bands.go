package calculator

import (
	"fmt"
	"math"

	"BandWatcher/internal/model"
)

// Params controls the Bollinger Band calculation.
type Params struct {
	Window     int     // moving-average period
	StdDevMult float64 // number of standard deviations for the outer bands
}

// DefaultParams returns the classic 20-period, 2-sigma configuration.
func DefaultParams() Params {
	return Params{Window: 20, StdDevMult: 2}
}

// ComputeBands derives the Bollinger Band values for each bar:
//
//	middle = rolling mean of close
//	upper  = middle + k*std, lower = middle - k*std (population std)
//	width  = (upper - lower) / middle, NaN when middle == 0
//	%B     = (close - lower) / (upper - lower), 0.5 when the band has zero width
//
// An empty input yields an empty output.
func ComputeBands(bars []model.OHLCV, p Params) ([]model.IndicatorPoint, error) {
	if len(bars) == 0 {
		return nil, nil
	}
	closes := model.Closes(bars)

	mean, err := RollingMean(closes, p.Window)
	if err != nil {
		return nil, fmt.Errorf("rolling mean: %w", err)
	}
	std, err := RollingStdDev(closes, p.Window)
	if err != nil {
		return nil, fmt.Errorf("rolling std: %w", err)
	}

	points := make([]model.IndicatorPoint, len(bars))
	for i, bar := range bars {
		middle := mean[i]
		upper := middle + p.StdDevMult*std[i]
		lower := middle - p.StdDevMult*std[i]

		width := math.NaN()
		if middle != 0 {
			width = (upper - lower) / middle
		}

		// Zero-width band: price position is undefined, default to the midpoint
		// so downstream classification sees a neutral value instead of NaN.
		percentB := 0.5
		if upper != lower {
			percentB = (bar.Close - lower) / (upper - lower)
		}

		points[i] = model.IndicatorPoint{
			OHLCV:    bar,
			Middle:   middle,
			Upper:    upper,
			Lower:    lower,
			Width:    width,
			PercentB: percentB,
		}
	}
	return points, nil
}
