package recorder

import "TickerRadar/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunSummary) error                           { return nil }
func (n *NoopRecorder) RecordRows(_ string, _ int64, _ []model.ScoredRow) error { return nil }
func (n *NoopRecorder) Close() error                                            { return nil }
