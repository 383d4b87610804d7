package store

import (
	"time"

	"BandWatcher/internal/model"
)

// RunSummary records one batch run of the pipeline.
type RunSummary struct {
	ID          string
	Mode        string
	StartedAt   time.Time
	FinishedAt  time.Time
	Processed   int
	Skipped     int
	Failed      int
	RowsWritten int
}

// Sink persists computed indicator series.
type Sink interface {
	// UpsertSeries writes all points for a pair, replacing rows that share the
	// same (symbol, timeframe, timestamp) key. Returns the row count written.
	UpsertSeries(symbol, timeframe string, points []model.SignalPoint) (int, error)
	RecordRun(run *RunSummary) error
	Close() error
}
