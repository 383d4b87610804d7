package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"BandWatcher/internal/model"
)

// SQLiteSink persists indicator series to a SQLite database.
type SQLiteSink struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteSink opens (or creates) the indicator database and runs migrations.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] indicator sink opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bollinger_bands_data (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol     TEXT NOT NULL,
			timeframe  TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			open       REAL NOT NULL,
			high       REAL NOT NULL,
			low        REAL NOT NULL,
			close      REAL NOT NULL,
			volume     REAL NOT NULL,
			bb_upper   REAL,
			bb_lower   REAL,
			bb_middle  REAL,
			bb_width   REAL,
			bb_percent REAL,
			created_at INTEGER DEFAULT (unixepoch()),
			UNIQUE(symbol, timeframe, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bb_pair_ts ON bollinger_bands_data(symbol, timeframe, timestamp)`,

		`CREATE TABLE IF NOT EXISTS runs (
			run_id       TEXT PRIMARY KEY,
			mode         TEXT NOT NULL,
			started_at   INTEGER NOT NULL,
			finished_at  INTEGER NOT NULL,
			processed    INTEGER,
			skipped      INTEGER,
			failed       INTEGER,
			rows_written INTEGER
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// UpsertSeries writes all points for a pair. Duplicate (symbol, timeframe,
// timestamp) keys replace the prior row, so re-running a pair is idempotent.
func (s *SQLiteSink) UpsertSeries(symbol, timeframe string, points []model.SignalPoint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO bollinger_bands_data
		(symbol, timeframe, timestamp, open, high, low, close, volume,
		 bb_upper, bb_lower, bb_middle, bb_width, bb_percent)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, pt := range points {
		if _, err := stmt.Exec(symbol, timeframe, pt.Time.Unix(),
			pt.Open, pt.High, pt.Low, pt.Close, pt.Volume,
			pt.Upper, pt.Lower, pt.Middle, nullIfNaN(pt.Width), pt.PercentB); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("upsert point %s: %w", pt.Time.Format(time.RFC3339), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(points), nil
}

// RecordRun stores the summary of a completed batch run.
func (s *SQLiteSink) RecordRun(run *RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR REPLACE INTO runs
		(run_id, mode, started_at, finished_at, processed, skipped, failed, rows_written)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID, run.Mode, run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Processed, run.Skipped, run.Failed, run.RowsWritten,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Close() error {
	log.Println("[INFO] closing indicator sink")
	return s.db.Close()
}

// nullIfNaN maps NaN to SQL NULL; SQLite has no NaN representation.
func nullIfNaN(v float64) interface{} {
	if v != v {
		return nil
	}
	return v
}
