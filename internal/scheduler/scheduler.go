package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"BandWatcher/internal/collector"
	"BandWatcher/internal/notifier"
	"BandWatcher/internal/pipeline"
	"BandWatcher/internal/report"
)

// Scheduler runs collection and recalculation on cron schedules (daemon mode).
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Pipeline   *pipeline.Pipeline
	Notifier   notifier.Notifier
	Ctx        context.Context
	Symbols    []string
	Timeframes []string
	StartTime  time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, pipe *pipeline.Pipeline, nt notifier.Notifier, symbols, timeframes []string, start time.Time) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Pipeline:   pipe,
		Notifier:   nt,
		Ctx:        ctx,
		Symbols:    symbols,
		Timeframes: timeframes,
		StartTime:  start,
	}
}

// RegisterAll registers the collect and calculate cron tasks.
func (s *Scheduler) RegisterAll(collectCron, calculateCron string) error {
	if _, err := s.Cron.AddFunc(collectCron, s.collectTask); err != nil {
		return fmt.Errorf("register collect task: %w", err)
	}
	if _, err := s.Cron.AddFunc(calculateCron, s.calculateTask); err != nil {
		return fmt.Errorf("register calculate task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes a collect followed by a calculate immediately.
func (s *Scheduler) RunNow() {
	s.collectTask()
	s.calculateTask()
}

func (s *Scheduler) collectTask() {
	log.Println("[INFO] running scheduled collection")
	for _, symbol := range s.Symbols {
		for _, timeframe := range s.Timeframes {
			if s.Ctx.Err() != nil {
				return
			}
			if _, err := s.Collector.Collect(s.Ctx, symbol, timeframe, s.StartTime); err != nil {
				log.Printf("[ERROR] collect %s (%s): %v", symbol, timeframe, err)
			}
		}
	}
}

func (s *Scheduler) calculateTask() {
	log.Println("[INFO] running scheduled calculation")
	run, results := s.Pipeline.RunBatch(s.Ctx, "scheduled", s.Symbols, s.Timeframes)

	var b strings.Builder
	for _, res := range results {
		if res.Status != pipeline.StatusProcessed {
			continue
		}
		b.WriteString(report.FormatPairAnalysis(res.Symbol, res.Timeframe, res.Snapshot))
		b.WriteString("\n")
	}
	b.WriteString(report.FormatRunSummary(run, results))

	if err := s.Notifier.Notify(s.Ctx, b.String()); err != nil {
		log.Printf("[ERROR] send report via %s: %v", s.Notifier.Name(), err)
	}
}
