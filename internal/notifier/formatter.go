package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"TickerRadar/internal/model"
)

// FormatTopRows formats the ranked rows into a Telegram message.
func FormatTopRows(rows []model.ScoredRow, runTS time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📡 <b>TickerRadar</b> | %s\n\n", runTS.Format("2006-01-02 15:04")))

	if len(rows) == 0 {
		b.WriteString("No tickers surfaced this run.")
		return b.String()
	}

	for i, row := range rows {
		b.WriteString(fmt.Sprintf("%d. <b>$%s</b> %s — %d mentions (Δ%+d), score %.2f",
			i+1, row.Ticker, tag(row), row.Count, row.Signals.Delta, row.Score))
		if row.Asset.MarketCap > 0 {
			b.WriteString(fmt.Sprintf(", cap $%s", humanize.Comma(int64(row.Asset.MarketCap))))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func tag(row model.ScoredRow) string {
	var tags []string
	if row.Signals.IsNew {
		tags = append(tags, "NEW")
	}
	if row.Signals.IsSpike {
		tags = append(tags, "SPIKE")
	}
	if row.Asset.Type == model.AssetCrypto {
		tags = append(tags, "crypto")
	}
	if len(tags) == 0 {
		return ""
	}
	return "[" + strings.Join(tags, "|") + "]"
}

// FormatRunSummary formats the per-run counters for display.
func FormatRunSummary(scanned, candidates, classified, surfaced int) string {
	var b strings.Builder
	b.WriteString("🧾 <b>Run summary</b>\n\n")
	b.WriteString(fmt.Sprintf("Tickers scanned: %d\n", scanned))
	b.WriteString(fmt.Sprintf("Candidates: %d\n", candidates))
	b.WriteString(fmt.Sprintf("Classified: %d\n", classified))
	b.WriteString(fmt.Sprintf("Surfaced: %d\n", surfaced))
	return b.String()
}

// FormatHistoryStatus formats the snapshot history state for display.
func FormatHistoryStatus(hist model.History) string {
	var b strings.Builder
	b.WriteString("🗂 <b>Mention history</b>\n\n")
	b.WriteString(fmt.Sprintf("Snapshots: %d\n", len(hist.Snapshots)))
	if len(hist.Snapshots) > 0 {
		first := time.Unix(hist.Snapshots[0].TS, 0)
		last := time.Unix(hist.Snapshots[len(hist.Snapshots)-1].TS, 0)
		b.WriteString(fmt.Sprintf("Oldest: %s\n", first.Format("2006-01-02 15:04")))
		b.WriteString(fmt.Sprintf("Newest: %s\n", last.Format("2006-01-02 15:04")))
	}
	return b.String()
}
