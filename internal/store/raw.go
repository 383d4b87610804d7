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

// RawStore holds collected OHLCV bars in a SQLite database.
type RawStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRawStore opens (or creates) the raw-data database and runs migrations.
func NewRawStore(dbPath string) (*RawStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so calculate runs can read while a collect run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &RawStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] raw store opened: %s", dbPath)
	return s, nil
}

func (s *RawStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS raw_data (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT NOT NULL,
			timeframe TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL NOT NULL,
			high      REAL NOT NULL,
			low       REAL NOT NULL,
			close     REAL NOT NULL,
			volume    REAL NOT NULL,
			UNIQUE(symbol, timeframe, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_pair_ts ON raw_data(symbol, timeframe, timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveBars upserts bars for a (symbol, timeframe) pair and returns the row count.
func (s *RawStore) SaveBars(symbol, timeframe string, bars []model.OHLCV) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO raw_data
		(symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, timeframe, b.Time.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert bar %s: %w", b.Time.Format(time.RFC3339), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(bars), nil
}

// FetchSeries returns all bars for a pair ordered ascending by timestamp.
// An empty result is valid and yields an empty slice.
func (s *RawStore) FetchSeries(symbol, timeframe string) ([]model.OHLCV, error) {
	rows, err := s.db.Query(`SELECT timestamp, open, high, low, close, volume
		FROM raw_data
		WHERE symbol = ? AND timeframe = ?
		ORDER BY timestamp ASC`, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("query raw data: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var ts int64
		var b model.OHLCV
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan raw row: %w", err)
		}
		b.Time = time.Unix(ts, 0).UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw rows: %w", err)
	}
	return bars, nil
}

// LatestTimestamp returns the newest stored bar time for a pair, or ok=false
// when the pair has no data yet.
func (s *RawStore) LatestTimestamp(symbol, timeframe string) (time.Time, bool, error) {
	var ts sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(timestamp) FROM raw_data
		WHERE symbol = ? AND timeframe = ?`, symbol, timeframe).Scan(&ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest timestamp: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	return time.Unix(ts.Int64, 0).UTC(), true, nil
}

func (s *RawStore) Close() error {
	return s.db.Close()
}
