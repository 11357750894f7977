package strategy

import (
	"testing"

	"TickerRadar/internal/config"
	"TickerRadar/internal/model"
)

func defaultWeights() Weights {
	return Weights{
		Delta:           2.2,
		Count:           0.35,
		Momentum:        1.6,
		NewBonus:        2.0,
		CrossSourceMult: 1.6,
		StockTiers: []config.CapTier{
			{MaxCap: 50_000_000, Boost: 2.0},
			{MaxCap: 250_000_000, Boost: 1.6},
			{MaxCap: 1_000_000_000, Boost: 1.3},
			{MaxCap: 5_000_000_000, Boost: 1.1},
		},
		CryptoTiers: []config.CapTier{
			{MaxCap: 50_000_000, Boost: 1.6},
			{MaxCap: 250_000_000, Boost: 1.3},
			{MaxCap: 1_000_000_000, Boost: 1.15},
			{MaxCap: 5_000_000_000, Boost: 1.05},
		},
	}
}

func stock(cap float64) model.AssetInfo {
	return model.AssetInfo{Type: model.AssetStock, MarketCap: cap}
}

func TestScore_SecondRunBeatsFirst(t *testing.T) {
	w := defaultWeights()
	oneSource := map[string]int{"catalog": 1}

	// Run 1: AAA debuts at 3 mentions (delta 3, novel, no trend yet).
	run1 := Score(3, model.Signals{Delta: 3, Momentum: 0, IsNew: true}, oneSource, stock(20_000_000), w)
	// Run 2: AAA jumps to 9 (delta 6, momentum up, spike, no longer new).
	run2 := Score(9, model.Signals{Delta: 6, Momentum: 6, IsSpike: true}, oneSource, stock(20_000_000), w)

	if run2 <= run1 {
		t.Errorf("run 2 score (%.2f) must exceed run 1 (%.2f): delta and momentum both increased", run2, run1)
	}
}

func TestScore_CrossSourceMultiplier(t *testing.T) {
	w := defaultWeights()
	sig := model.Signals{Delta: 2}
	asset := model.AssetInfo{Type: model.AssetStock} // unknown cap, boost 1.0

	single := Score(5, sig, map[string]int{"catalog": 5}, asset, w)
	both := Score(5, sig, map[string]int{"catalog": 3, "forum": 2}, asset, w)
	zeroOther := Score(5, sig, map[string]int{"catalog": 5, "forum": 0}, asset, w)

	if both != single*w.CrossSourceMult {
		t.Errorf("two active sources should multiply by %.1f: single=%.2f both=%.2f", w.CrossSourceMult, single, both)
	}
	if zeroOther != single {
		t.Errorf("a zero-count source is not presence: got %.2f, want %.2f", zeroOther, single)
	}
}

func TestCapTierBoost(t *testing.T) {
	w := defaultWeights()

	tests := []struct {
		name  string
		asset model.AssetInfo
		want  float64
	}{
		{"nano stock", stock(10_000_000), 2.0},
		{"micro stock", stock(100_000_000), 1.6},
		{"small stock", stock(600_000_000), 1.3},
		{"mid stock", stock(3_000_000_000), 1.1},
		{"large stock above tiers", stock(50_000_000_000), 1.0},
		{"unknown cap", stock(0), 1.0},
		{"nano crypto", model.AssetInfo{Type: model.AssetCrypto, MarketCap: 10_000_000}, 1.6},
		{"large crypto above tiers", model.AssetInfo{Type: model.AssetCrypto, MarketCap: 1e12}, 1.0},
	}
	for _, tt := range tests {
		if got := capTierBoost(tt.asset, w); got != tt.want {
			t.Errorf("%s: boost = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCapTierBoost_StockBeatsCryptoAtSameCap(t *testing.T) {
	w := defaultWeights()
	for _, cap := range []float64{10_000_000, 100_000_000, 600_000_000, 3_000_000_000} {
		s := capTierBoost(stock(cap), w)
		c := capTierBoost(model.AssetInfo{Type: model.AssetCrypto, MarketCap: cap}, w)
		if s <= c {
			t.Errorf("cap %.0f: stock boost %.2f should exceed crypto boost %.2f", cap, s, c)
		}
	}
}

func TestCapTierBoost_MonotonicInCap(t *testing.T) {
	w := defaultWeights()
	caps := []float64{1_000_000, 60_000_000, 300_000_000, 2_000_000_000, 10_000_000_000}
	prev := 1000.0
	for _, cap := range caps {
		b := capTierBoost(stock(cap), w)
		if b > prev {
			t.Errorf("boost must not increase with cap: %.2f at %.0f after %.2f", b, cap, prev)
		}
		prev = b
	}
}

func TestRank_FloorSortTruncate(t *testing.T) {
	rows := []model.ScoredRow{
		{Ticker: "LOW", Count: 1, Score: 999}, // below the mention floor
		{Ticker: "AAA", Count: 5, Score: 10},
		{Ticker: "BBB", Count: 4, Score: 30},
		{Ticker: "CCC", Count: 3, Score: 20},
		{Ticker: "DDD", Count: 2, Score: 5},
	}
	ranked := Rank(rows, 2, 3)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 rows after truncation, got %d", len(ranked))
	}
	for _, r := range ranked {
		if r.Ticker == "LOW" {
			t.Error("a row below the mention floor must never surface, whatever its score")
		}
	}
	want := []string{"BBB", "CCC", "AAA"}
	for i, tk := range want {
		if ranked[i].Ticker != tk {
			t.Errorf("rank %d: got %s, want %s", i+1, ranked[i].Ticker, tk)
		}
	}
}

func TestRank_DeterministicTieBreak(t *testing.T) {
	rows := []model.ScoredRow{
		{Ticker: "ZZZ", Count: 3, Score: 7},
		{Ticker: "AAA", Count: 3, Score: 7},
		{Ticker: "MMM", Count: 3, Score: 7},
	}
	ranked := Rank(rows, 2, 10)
	want := []string{"AAA", "MMM", "ZZZ"}
	for i, tk := range want {
		if ranked[i].Ticker != tk {
			t.Errorf("tie-break rank %d: got %s, want %s", i+1, ranked[i].Ticker, tk)
		}
	}
}

func TestRank_EmptyInput(t *testing.T) {
	if got := Rank(nil, 2, 25); len(got) != 0 {
		t.Errorf("expected empty ranking, got %d rows", len(got))
	}
}
