package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"BandWatcher/internal/model"
)

// BinanceFetcher implements Fetcher using the Binance spot klines API.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceFetcher creates a Binance fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string) *BinanceFetcher {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// binanceSymbol converts "BTC/USDT" to the exchange's "BTCUSDT" form.
func binanceSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

// FetchBars fetches klines for the pair starting at start, ascending by time.
func (f *BinanceFetcher) FetchBars(ctx context.Context, symbol, timeframe string, start time.Time, limit int) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&startTime=%d&limit=%d",
		f.BaseURL, url.QueryEscape(binanceSymbol(symbol)), url.QueryEscape(timeframe),
		start.UnixMilli(), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance: status %d, body: %s", resp.StatusCode, string(body))
	}

	// Klines arrive as arrays: [openTime, open, high, low, close, volume, ...]
	// with prices encoded as strings.
	var raw [][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("binance decode: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			return nil, fmt.Errorf("binance: short kline record (%d fields)", len(k))
		}
		var openMs int64
		if err := json.Unmarshal(k[0], &openMs); err != nil {
			return nil, fmt.Errorf("binance: parse open time: %w", err)
		}
		vals := make([]float64, 5)
		for i := 1; i <= 5; i++ {
			var s string
			if err := json.Unmarshal(k[i], &s); err != nil {
				return nil, fmt.Errorf("binance: parse kline field %d: %w", i, err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("binance: non-numeric kline field %d (%q): %w", i, s, err)
			}
			vals[i-1] = v
		}
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(openMs).UTC(),
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
