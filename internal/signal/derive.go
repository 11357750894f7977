package signal

import (
	"time"

	"TickerRadar/internal/model"
)

// Params holds the derivation thresholds, sourced from config.
type Params struct {
	MomentumWindow  int
	NoveltyLookback time.Duration
	SpikeAbsDelta   int
	SpikeMultiplier float64
}

// Delta returns the mention-count change from the previous run.
func Delta(current, previous int) int {
	return current - previous
}

// Momentum computes the endpoint slope of a ticker's counts across the
// last k snapshots (including the current one). Missing counts are 0.
// Fewer than 2 points means no trend, so 0.0.
func Momentum(hist model.History, ticker string, k int) float64 {
	snaps := hist.Snapshots
	if len(snaps) > k {
		snaps = snaps[len(snaps)-k:]
	}
	if len(snaps) < 2 {
		return 0.0
	}
	first := float64(snaps[0].Counts[ticker])
	last := float64(snaps[len(snaps)-1].Counts[ticker])
	return (last - first) / float64(len(snaps)-1)
}

// IsNew reports whether the ticker had zero mentions in every snapshot
// within the lookback window, excluding the just-appended current one.
// An empty prior history makes every ticker new.
func IsNew(hist model.History, ticker string, lookback time.Duration, now time.Time) bool {
	if len(hist.Snapshots) == 0 {
		return true
	}
	cutoff := now.Add(-lookback).Unix()
	prior := hist.Snapshots[:len(hist.Snapshots)-1]
	for _, sn := range prior {
		if sn.TS < cutoff {
			continue
		}
		if sn.Counts[ticker] > 0 {
			return false
		}
	}
	return true
}

// IsSpike reports an abrupt mention increase. Two independent legs:
// absolute delta, or a multiple of a nonzero previous count. Ratios
// from zero are excluded since they would flag every debut as a spike.
func IsSpike(current, previous, absDelta int, multiplier float64) bool {
	if current-previous >= absDelta {
		return true
	}
	return previous > 0 && float64(current) >= float64(previous)*multiplier
}

// Derive computes all per-ticker signals for the current merged counts.
// The history is expected to already contain the current snapshot.
func Derive(hist model.History, merged, previous model.MentionCount, p Params, now time.Time) map[string]model.Signals {
	out := make(map[string]model.Signals, len(merged))
	for tk, count := range merged {
		prev := previous[tk]
		out[tk] = model.Signals{
			Delta:    Delta(count, prev),
			Momentum: Momentum(hist, tk, p.MomentumWindow),
			IsNew:    IsNew(hist, tk, p.NoveltyLookback, now),
			IsSpike:  IsSpike(count, prev, p.SpikeAbsDelta, p.SpikeMultiplier),
		}
	}
	return out
}
