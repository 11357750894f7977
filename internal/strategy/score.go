package strategy

import (
	"TickerRadar/internal/config"
	"TickerRadar/internal/model"
)

// Weights holds the composite-score parameters, sourced from config.
type Weights struct {
	Delta           float64
	Count           float64
	Momentum        float64
	NewBonus        float64
	CrossSourceMult float64
	StockTiers      []config.CapTier
	CryptoTiers     []config.CapTier
}

// WeightsFromConfig copies the scoring section into a Weights value.
func WeightsFromConfig(cfg *config.Config) Weights {
	return Weights{
		Delta:           cfg.Scoring.DeltaWeight,
		Count:           cfg.Scoring.CountWeight,
		Momentum:        cfg.Scoring.MomentumWeight,
		NewBonus:        cfg.Scoring.NewBonus,
		CrossSourceMult: cfg.Scoring.CrossSourceMultiplier,
		StockTiers:      cfg.Scoring.StockTiers,
		CryptoTiers:     cfg.Scoring.CryptoTiers,
	}
}

// Score computes the composite score for one ticker:
// a weighted base of delta, count and momentum plus a novelty bonus,
// multiplied up for cross-source presence and small-cap tier.
func Score(count int, sig model.Signals, sources map[string]int, asset model.AssetInfo, w Weights) float64 {
	base := float64(sig.Delta)*w.Delta + float64(count)*w.Count + sig.Momentum*w.Momentum
	if sig.IsNew {
		base += w.NewBonus
	}
	return base * crossSourceMultiplier(sources, w) * capTierBoost(asset, w)
}

// crossSourceMultiplier applies when the ticker shows up in at least
// two independent sources in the current run.
func crossSourceMultiplier(sources map[string]int, w Weights) float64 {
	active := 0
	for _, n := range sources {
		if n > 0 {
			active++
		}
	}
	if active >= 2 {
		return w.CrossSourceMult
	}
	return 1.0
}

// capTierBoost maps the asset's market cap to a boost multiplier.
// Smaller caps boost more, stocks boost more than crypto at the same
// tier, and an unknown cap or a cap above the top tier gets 1.0.
func capTierBoost(asset model.AssetInfo, w Weights) float64 {
	if asset.MarketCap <= 0 {
		return 1.0
	}
	var tiers []config.CapTier
	switch asset.Type {
	case model.AssetStock:
		tiers = w.StockTiers
	case model.AssetCrypto:
		tiers = w.CryptoTiers
	default:
		return 1.0
	}
	for _, t := range tiers {
		if asset.MarketCap < t.MaxCap {
			return t.Boost
		}
	}
	return 1.0
}
