package recorder

import "TickerRadar/internal/model"

// RunSummary holds the per-run counters persisted for later analysis.
type RunSummary struct {
	RunID      string
	TS         int64
	Scanned    int
	Candidates int
	Classified int
	Surfaced   int
}

// Recorder persists run history for analysis. Recording failures are
// logged by callers and never abort a run.
type Recorder interface {
	RecordRun(sum *RunSummary) error
	RecordRows(runID string, ts int64, rows []model.ScoredRow) error
	Close() error
}
