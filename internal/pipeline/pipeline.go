package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"BandWatcher/internal/calculator"
	"BandWatcher/internal/model"
	"BandWatcher/internal/store"
	"BandWatcher/internal/strategy"
)

// Source supplies the raw OHLCV series for a pair, ascending by timestamp.
type Source interface {
	FetchSeries(symbol, timeframe string) ([]model.OHLCV, error)
}

// Status is the per-pair outcome of a pipeline run.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped" // no raw data for the pair
	StatusFailed    Status = "failed"
)

// Result reports the outcome for one (symbol, timeframe) pair.
type Result struct {
	Symbol      string
	Timeframe   string
	Status      Status
	RowsWritten int
	Snapshot    *model.PatternSnapshot
	Err         error
}

// Pipeline computes and persists band indicators pair by pair.
type Pipeline struct {
	Source        Source
	Sink          store.Sink
	Params        calculator.Params
	SqueezeWindow int
}

// New creates a Pipeline with the given band parameters.
func New(src Source, sink store.Sink, params calculator.Params, squeezeWindow int) *Pipeline {
	return &Pipeline{Source: src, Sink: sink, Params: params, SqueezeWindow: squeezeWindow}
}

// RunPair runs the full computation for one pair: fetch, derive bands, classify
// signals, persist, analyze. A pair with no raw data is skipped, not failed.
func (p *Pipeline) RunPair(symbol, timeframe string) Result {
	res := Result{Symbol: symbol, Timeframe: timeframe}

	bars, err := p.Source.FetchSeries(symbol, timeframe)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("fetch series: %w", err)
		return res
	}
	if len(bars) == 0 {
		res.Status = StatusSkipped
		return res
	}

	points, err := calculator.ComputeBands(bars, p.Params)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("compute bands: %w", err)
		return res
	}
	signals, err := strategy.ClassifySignals(points, p.SqueezeWindow)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("classify signals: %w", err)
		return res
	}

	n, err := p.Sink.UpsertSeries(symbol, timeframe, signals)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("persist series: %w", err)
		return res
	}

	res.Status = StatusProcessed
	res.RowsWritten = n
	res.Snapshot = strategy.AnalyzePatterns(signals)
	return res
}

// RunAll processes every (symbol, timeframe) combination sequentially. A failure
// on one pair is logged and recorded in its Result; the batch continues. The
// context is checked between pairs so a cancelled run stops cleanly.
func (p *Pipeline) RunAll(ctx context.Context, symbols, timeframes []string) []Result {
	var results []Result
	for _, symbol := range symbols {
		for _, timeframe := range timeframes {
			if err := ctx.Err(); err != nil {
				log.Printf("[WARN] run cancelled: %v", err)
				return results
			}
			res := p.RunPair(symbol, timeframe)
			switch res.Status {
			case StatusSkipped:
				log.Printf("[INFO] no raw data for %s (%s), skipping", symbol, timeframe)
			case StatusFailed:
				log.Printf("[ERROR] %s (%s): %v", symbol, timeframe, res.Err)
			default:
				log.Printf("[INFO] saved %d indicator rows for %s (%s)", res.RowsWritten, symbol, timeframe)
			}
			results = append(results, res)
		}
	}
	return results
}

// RunBatch runs all pairs, records the run in the sink under a fresh run ID, and
// returns the summary alongside the per-pair results.
func (p *Pipeline) RunBatch(ctx context.Context, mode string, symbols, timeframes []string) (*store.RunSummary, []Result) {
	run := &store.RunSummary{
		ID:        uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now(),
	}
	results := p.RunAll(ctx, symbols, timeframes)
	run.FinishedAt = time.Now()

	for _, res := range results {
		switch res.Status {
		case StatusProcessed:
			run.Processed++
			run.RowsWritten += res.RowsWritten
		case StatusSkipped:
			run.Skipped++
		case StatusFailed:
			run.Failed++
		}
	}
	if err := p.Sink.RecordRun(run); err != nil {
		log.Printf("[ERROR] record run %s: %v", run.ID, err)
	}
	return run, results
}
