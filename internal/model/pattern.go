package model

// PositionLabel describes where the latest close sits relative to the bands.
type PositionLabel string

const (
	PositionAboveUpper  PositionLabel = "above upper band (very overbought)"
	PositionNearUpper   PositionLabel = "near upper band (overbought)"
	PositionAboveMiddle PositionLabel = "above middle (bullish)"
	PositionMiddle      PositionLabel = "around middle (neutral)"
	PositionBelowMiddle PositionLabel = "below middle (bearish)"
	PositionNearLower   PositionLabel = "near lower band (oversold)"
	PositionBelowLower  PositionLabel = "below lower band (very oversold)"
)

// VolatilityLabel describes the current band width relative to its recent average.
type VolatilityLabel string

const (
	VolatilityHigh         VolatilityLabel = "high volatility (bands expanding)"
	VolatilityAboveAverage VolatilityLabel = "above average volatility"
	VolatilityNormal       VolatilityLabel = "normal volatility"
	VolatilityBelowAverage VolatilityLabel = "below average volatility"
	VolatilityLow          VolatilityLabel = "low volatility (potential squeeze)"
)

// BandLevels holds the latest price against the band boundaries.
type BandLevels struct {
	Close    float64
	Upper    float64
	Middle   float64
	Lower    float64
	PercentB float64
}

// PatternSnapshot summarizes the latest point of a classified series.
type PatternSnapshot struct {
	Position      PositionLabel
	Volatility    VolatilityLabel
	LatestSignal  Signal
	SqueezeActive bool
	Levels        BandLevels
}
