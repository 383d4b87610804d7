package strategy

import (
	"math"

	"BandWatcher/internal/model"
)

// volatilityWindow is the trailing span used as the width baseline.
const volatilityWindow = 20

// positionBuckets maps %B to a position label, checked in descending order.
var positionBuckets = []struct {
	MinPercentB float64
	Label       model.PositionLabel
}{
	{1.0, model.PositionAboveUpper},
	{0.8, model.PositionNearUpper},
	{0.6, model.PositionAboveMiddle},
	{0.4, model.PositionMiddle},
	{0.2, model.PositionBelowMiddle},
}

// volatilityBuckets maps width/average-width to a volatility label.
var volatilityBuckets = []struct {
	MinRatio float64
	Label    model.VolatilityLabel
}{
	{1.5, model.VolatilityHigh},
	{1.2, model.VolatilityAboveAverage},
	{0.8, model.VolatilityNormal},
	{0.6, model.VolatilityBelowAverage},
}

func mapPosition(percentB float64) model.PositionLabel {
	for _, b := range positionBuckets {
		if percentB >= b.MinPercentB {
			return b.Label
		}
	}
	if percentB > 0 {
		return model.PositionNearLower
	}
	return model.PositionBelowLower
}

func mapVolatility(ratio float64) model.VolatilityLabel {
	for _, b := range volatilityBuckets {
		if ratio >= b.MinRatio {
			return b.Label
		}
	}
	return model.VolatilityLow
}

// AnalyzePatterns summarizes the latest point of a classified series: its position
// within the bands and how the current width compares with the trailing 20-point
// average. Returns nil for an empty series; missing data is expected, not an error.
func AnalyzePatterns(points []model.SignalPoint) *model.PatternSnapshot {
	if len(points) == 0 {
		return nil
	}
	latest := points[len(points)-1]

	start := len(points) - volatilityWindow
	if start < 0 {
		start = 0
	}
	avgWidth := meanWidth(points[start:])

	ratio := 1.0
	if avgWidth > 0 {
		ratio = latest.Width / avgWidth
	}

	return &model.PatternSnapshot{
		Position:      mapPosition(latest.PercentB),
		Volatility:    mapVolatility(ratio),
		LatestSignal:  latest.Signal,
		SqueezeActive: latest.Squeeze,
		Levels: model.BandLevels{
			Close:    latest.Close,
			Upper:    latest.Upper,
			Middle:   latest.Middle,
			Lower:    latest.Lower,
			PercentB: latest.PercentB,
		},
	}
}

// meanWidth averages the band widths, skipping NaN entries (zero-middle bars).
func meanWidth(points []model.SignalPoint) float64 {
	sum, n := 0.0, 0
	for _, pt := range points {
		if !math.IsNaN(pt.Width) {
			sum += pt.Width
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
