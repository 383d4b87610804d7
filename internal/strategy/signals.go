package strategy

import (
	"fmt"

	"BandWatcher/internal/calculator"
	"BandWatcher/internal/model"
)

// Thresholds for the %B signal conditions.
const (
	oversoldPercentB   = 0.2
	overboughtPercentB = 0.8
)

// squeezeQuantile is the trailing width percentile below which a point is squeezed.
const squeezeQuantile = 0.25

// ClassifySignals assigns a buy/sell/hold signal and a squeeze flag to every point.
//
// Buy fires when the close is at or below the lower band or %B <= 0.2; sell fires
// when the close is at or above the upper band or %B >= 0.8. Sell is evaluated
// after buy and overwrites it when both conditions hold at once (degenerate data
// such as a zero-width band). A point is squeezed when its band width falls below
// the trailing 25th percentile of width over squeezeWindow points, with the same
// expanding warm-up as the band calculation — at index 0 the window contains only
// the point itself, so squeeze is always false there.
func ClassifySignals(points []model.IndicatorPoint, squeezeWindow int) ([]model.SignalPoint, error) {
	if len(points) == 0 {
		return nil, nil
	}

	widths := make([]float64, len(points))
	for i, pt := range points {
		widths[i] = pt.Width
	}
	widthQ, err := calculator.RollingQuantile(widths, squeezeWindow, squeezeQuantile)
	if err != nil {
		return nil, fmt.Errorf("squeeze quantile: %w", err)
	}

	out := make([]model.SignalPoint, len(points))
	for i, pt := range points {
		signal := model.SignalHold
		if pt.Close <= pt.Lower || pt.PercentB <= oversoldPercentB {
			signal = model.SignalBuy
		}
		if pt.Close >= pt.Upper || pt.PercentB >= overboughtPercentB {
			signal = model.SignalSell
		}

		out[i] = model.SignalPoint{
			IndicatorPoint: pt,
			Signal:         signal,
			Squeeze:        pt.Width < widthQ[i], // NaN on either side compares false
		}
	}
	return out, nil
}
