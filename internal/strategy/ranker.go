package strategy

import (
	"sort"

	"TickerRadar/internal/model"
)

// Rank filters, orders and truncates the scored rows: rows below the
// minimum-mentions floor are dropped, the rest sort by score descending
// with ticker as a deterministic tie-break, truncated to topN.
func Rank(rows []model.ScoredRow, minMentions, topN int) []model.ScoredRow {
	kept := make([]model.ScoredRow, 0, len(rows))
	for _, r := range rows {
		if r.Count >= minMentions {
			kept = append(kept, r)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Ticker < kept[j].Ticker
	})
	if len(kept) > topN {
		kept = kept[:topN]
	}
	return kept
}
