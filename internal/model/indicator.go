package model

// IndicatorPoint carries a bar plus its Bollinger Band values.
type IndicatorPoint struct {
	OHLCV
	Middle   float64
	Upper    float64
	Lower    float64
	Width    float64 // (upper - lower) / middle, NaN when middle == 0
	PercentB float64 // position within the band, 0.5 when the band has zero width
}

// Signal is the discrete trading signal for a single point.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalHold Signal = "hold"
)

// SignalPoint is an IndicatorPoint with its classification attached.
type SignalPoint struct {
	IndicatorPoint
	Signal  Signal
	Squeeze bool
}
