package model

// Signals holds the per-ticker values derived from the mention history.
type Signals struct {
	Delta    int
	Momentum float64
	IsNew    bool
	IsSpike  bool
}

// ScoredRow is the final per-ticker record handed to the ranker and the
// feed renderer. Recomputed every run, never persisted.
type ScoredRow struct {
	Ticker   string
	Count    int
	Previous int
	Signals  Signals
	Sources  map[string]int
	Asset    AssetInfo
	Score    float64
}
