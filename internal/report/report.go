package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"BandWatcher/internal/model"
	"BandWatcher/internal/pipeline"
	"BandWatcher/internal/store"
)

// FormatPairAnalysis formats the latest pattern snapshot for one pair.
func FormatPairAnalysis(symbol, timeframe string, snap *model.PatternSnapshot) string {
	if snap == nil {
		return fmt.Sprintf("%s (%s): no data", symbol, strings.ToUpper(timeframe))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 %s | %s\n", symbol, strings.ToUpper(timeframe)))
	b.WriteString(fmt.Sprintf("  position:   %s\n", snap.Position))
	b.WriteString(fmt.Sprintf("  volatility: %s\n", snap.Volatility))
	b.WriteString(fmt.Sprintf("  signal:     %s", snap.LatestSignal))
	if snap.SqueezeActive {
		b.WriteString("  [squeeze]")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  close %.2f | upper %.2f | middle %.2f | lower %.2f | %%B %.3f\n",
		snap.Levels.Close, snap.Levels.Upper, snap.Levels.Middle,
		snap.Levels.Lower, snap.Levels.PercentB))
	return b.String()
}

// FormatRunSummary formats the outcome of a full batch run.
func FormatRunSummary(run *store.RunSummary, results []pipeline.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("run %s (%s) finished in %s\n",
		run.ID, run.Mode, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)))
	b.WriteString(fmt.Sprintf("  pairs: %d processed, %d skipped, %d failed\n",
		run.Processed, run.Skipped, run.Failed))
	b.WriteString(fmt.Sprintf("  rows written: %s\n", humanize.Comma(int64(run.RowsWritten))))

	for _, res := range results {
		if res.Status != pipeline.StatusFailed {
			continue
		}
		b.WriteString(fmt.Sprintf("  failed: %s (%s): %v\n", res.Symbol, res.Timeframe, res.Err))
	}
	return b.String()
}
