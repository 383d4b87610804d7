package collector

import (
	"context"
	"time"

	"BandWatcher/internal/model"
)

// Fetcher defines the interface for fetching market data from an exchange.
type Fetcher interface {
	// FetchBars returns up to limit bars for the pair starting at start,
	// ordered ascending by time.
	FetchBars(ctx context.Context, symbol, timeframe string, start time.Time, limit int) ([]model.OHLCV, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.OHLCV
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _, _ string, start time.Time, limit int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.OHLCV
	for _, b := range m.Bars {
		if b.Time.Before(start) {
			continue
		}
		out = append(out, b)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
