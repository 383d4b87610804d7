package store

import "BandWatcher/internal/model"

// NoopSink is a no-op implementation used when no indicator database is
// configured (report-only runs).
type NoopSink struct{}

func NewNoopSink() *NoopSink { return &NoopSink{} }

func (n *NoopSink) UpsertSeries(_, _ string, points []model.SignalPoint) (int, error) {
	return len(points), nil
}
func (n *NoopSink) RecordRun(_ *RunSummary) error { return nil }
func (n *NoopSink) Close() error                  { return nil }
