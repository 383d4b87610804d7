package store

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"BandWatcher/internal/model"
)

func testBars(n int) []model.OHLCV {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Time: base.Add(time.Duration(i) * time.Hour), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return bars
}

func testPoints(n int) []model.SignalPoint {
	bars := testBars(n)
	points := make([]model.SignalPoint, n)
	for i, b := range bars {
		points[i] = model.SignalPoint{
			IndicatorPoint: model.IndicatorPoint{
				OHLCV:    b,
				Middle:   b.Close,
				Upper:    b.Close + 2,
				Lower:    b.Close - 2,
				Width:    4 / b.Close,
				PercentB: 0.5,
			},
			Signal: model.SignalHold,
		}
	}
	return points
}

func TestRawStore_RoundTrip(t *testing.T) {
	s, err := NewRawStore(filepath.Join(t.TempDir(), "raw.db"))
	if err != nil {
		t.Fatalf("open raw store: %v", err)
	}
	defer s.Close()

	bars := testBars(5)
	if _, err := s.SaveBars("BTC/USDT", "4h", bars); err != nil {
		t.Fatalf("save bars: %v", err)
	}

	got, err := s.FetchSeries("BTC/USDT", "4h")
	if err != nil {
		t.Fatalf("fetch series: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 bars, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Time.After(got[i-1].Time) {
			t.Fatalf("bars not ascending at index %d", i)
		}
	}
	if got[0].Close != 100 || got[4].Close != 104 {
		t.Errorf("unexpected closes: %.0f .. %.0f", got[0].Close, got[4].Close)
	}

	latest, ok, err := s.LatestTimestamp("BTC/USDT", "4h")
	if err != nil || !ok {
		t.Fatalf("latest timestamp: ok=%v err=%v", ok, err)
	}
	if !latest.Equal(bars[4].Time) {
		t.Errorf("expected latest %v, got %v", bars[4].Time, latest)
	}
}

func TestRawStore_EmptyPair(t *testing.T) {
	s, err := NewRawStore(filepath.Join(t.TempDir(), "raw.db"))
	if err != nil {
		t.Fatalf("open raw store: %v", err)
	}
	defer s.Close()

	got, err := s.FetchSeries("ETH/USDT", "1d")
	if err != nil {
		t.Fatalf("empty pair should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty series, got %d bars", len(got))
	}
	_, ok, err := s.LatestTimestamp("ETH/USDT", "1d")
	if err != nil {
		t.Fatalf("latest timestamp: %v", err)
	}
	if ok {
		t.Error("expected no latest timestamp for an empty pair")
	}
}

func TestSQLiteSink_UpsertIdempotent(t *testing.T) {
	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "bands.db"))
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer s.Close()

	points := testPoints(8)
	if _, err := s.UpsertSeries("BTC/USDT", "4h", points); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	// Writing the same series again must leave the table unchanged.
	if _, err := s.UpsertSeries("BTC/USDT", "4h", points); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM bollinger_bands_data
		WHERE symbol = ? AND timeframe = ?`, "BTC/USDT", "4h").Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != len(points) {
		t.Errorf("expected %d rows after duplicate upsert, got %d", len(points), count)
	}
}

func TestSQLiteSink_LastWriteWins(t *testing.T) {
	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "bands.db"))
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer s.Close()

	points := testPoints(1)
	if _, err := s.UpsertSeries("BTC/USDT", "4h", points); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	points[0].Upper = 999
	if _, err := s.UpsertSeries("BTC/USDT", "4h", points); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var upper float64
	if err := s.db.QueryRow(`SELECT bb_upper FROM bollinger_bands_data
		WHERE symbol = ? AND timeframe = ? AND timestamp = ?`,
		"BTC/USDT", "4h", points[0].Time.Unix()).Scan(&upper); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if upper != 999 {
		t.Errorf("expected the rewritten value, got %v", upper)
	}
}

func TestSQLiteSink_NaNWidthStoredAsNull(t *testing.T) {
	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "bands.db"))
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer s.Close()

	points := testPoints(1)
	points[0].Width = math.NaN()
	if _, err := s.UpsertSeries("BTC/USDT", "4h", points); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var width *float64
	if err := s.db.QueryRow(`SELECT bb_width FROM bollinger_bands_data
		WHERE timestamp = ?`, points[0].Time.Unix()).Scan(&width); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if width != nil {
		t.Errorf("expected NULL width, got %v", *width)
	}
}

func TestSQLiteSink_ReopenExistingSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.db")
	s, err := NewSQLiteSink(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	if _, err := s.UpsertSeries("BTC/USDT", "4h", testPoints(3)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	s.Close()

	// Migration must be a no-op on an already-created database.
	s2, err := NewSQLiteSink(path)
	if err != nil {
		t.Fatalf("reopen sink: %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.db.QueryRow(`SELECT COUNT(*) FROM bollinger_bands_data`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 3 {
		t.Errorf("reopen should preserve data, got %d rows", count)
	}
}

func TestSQLiteSink_RecordRun(t *testing.T) {
	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "bands.db"))
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer s.Close()

	run := &RunSummary{
		ID:          "test-run",
		Mode:        "batch",
		StartedAt:   time.Now().Add(-time.Minute),
		FinishedAt:  time.Now(),
		Processed:   3,
		Skipped:     1,
		RowsWritten: 42,
	}
	if err := s.RecordRun(run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	var mode string
	var rows int
	if err := s.db.QueryRow(`SELECT mode, rows_written FROM runs WHERE run_id = ?`,
		"test-run").Scan(&mode, &rows); err != nil {
		t.Fatalf("read run: %v", err)
	}
	if mode != "batch" || rows != 42 {
		t.Errorf("unexpected run row: mode=%s rows=%d", mode, rows)
	}
}
