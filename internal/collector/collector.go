package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"BandWatcher/internal/store"
)

// pageSize is the maximum klines per request allowed by the exchange.
const pageSize = 1000

// Collector pulls OHLCV history from a Fetcher into the raw store.
type Collector struct {
	Fetcher Fetcher
	Raw     *store.RawStore
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, raw *store.RawStore) *Collector {
	return &Collector{Fetcher: fetcher, Raw: raw}
}

// Collect fetches bars for a pair from the last stored timestamp (or start for a
// fresh pair) and upserts them page by page. Returns the total rows written.
func (c *Collector) Collect(ctx context.Context, symbol, timeframe string, start time.Time) (int, error) {
	since := start
	if latest, ok, err := c.Raw.LatestTimestamp(symbol, timeframe); err != nil {
		return 0, fmt.Errorf("latest timestamp: %w", err)
	} else if ok && latest.After(since) {
		// Re-fetch the newest stored bar too: it may have been collected
		// before its interval closed.
		since = latest
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		bars, err := c.Fetcher.FetchBars(ctx, symbol, timeframe, since, pageSize)
		if err != nil {
			return total, fmt.Errorf("fetch bars: %w", err)
		}
		if len(bars) == 0 {
			break
		}
		n, err := c.Raw.SaveBars(symbol, timeframe, bars)
		if err != nil {
			return total, fmt.Errorf("save bars: %w", err)
		}
		total += n

		last := bars[len(bars)-1].Time
		if !last.After(since) {
			break // no forward progress, stop rather than loop
		}
		since = last.Add(time.Second)
		if len(bars) < pageSize {
			break
		}
	}

	log.Printf("[INFO] collected %d bars for %s (%s) via %s", total, symbol, timeframe, c.Fetcher.Name())
	return total, nil
}
