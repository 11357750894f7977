package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"TickerRadar/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id     TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			scanned    INTEGER,
			candidates INTEGER,
			classified INTEGER,
			surfaced   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ranked_rows (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			rank       INTEGER NOT NULL,
			ticker     TEXT NOT NULL,
			asset_type TEXT,
			name       TEXT,
			market_cap REAL,
			count      INTEGER,
			previous   INTEGER,
			delta      INTEGER,
			momentum   REAL,
			is_new     INTEGER,
			is_spike   INTEGER,
			sources    INTEGER,
			score      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run ON ranked_rows(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_ticker ON ranked_rows(ticker, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(sum *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, timestamp, scanned, candidates, classified, surfaced)
		VALUES (?,?,?,?,?,?)`,
		sum.RunID, sum.TS, sum.Scanned, sum.Candidates, sum.Classified, sum.Surfaced,
	)
	return err
}

func (r *SQLiteRecorder) RecordRows(runID string, ts int64, rows []model.ScoredRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO ranked_rows
		(run_id, timestamp, rank, ticker, asset_type, name, market_cap,
		 count, previous, delta, momentum, is_new, is_spike, sources, score)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		active := 0
		for _, n := range row.Sources {
			if n > 0 {
				active++
			}
		}
		if _, err := stmt.Exec(
			runID, ts, i+1, row.Ticker, string(row.Asset.Type), row.Asset.Name,
			row.Asset.MarketCap, row.Count, row.Previous, row.Signals.Delta,
			row.Signals.Momentum, boolInt(row.Signals.IsNew), boolInt(row.Signals.IsSpike),
			active, row.Score,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
