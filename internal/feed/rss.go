package feed

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/feeds"

	"TickerRadar/internal/model"
)

// Meta holds the channel metadata for the rendered feed.
type Meta struct {
	Title       string
	Link        string
	Description string
}

// WriteRSS renders the ranked rows as an RSS 2.0 document at path.
// One item per row; the item body carries the full signal breakdown so
// a reader never has to reach back into the scoring engine.
func WriteRSS(rows []model.ScoredRow, runTS time.Time, meta Meta, path string) error {
	f := &feeds.Feed{
		Title:       meta.Title,
		Link:        &feeds.Link{Href: meta.Link},
		Description: meta.Description,
		Created:     runTS,
	}

	for _, row := range rows {
		why := whyLine(row)
		f.Items = append(f.Items, &feeds.Item{
			Id:          fmt.Sprintf("radar-%s-%d", row.Ticker, runTS.Unix()),
			Title:       fmt.Sprintf("%s — WHY: %s", row.Ticker, why),
			Link:        &feeds.Link{Href: quoteLink(row)},
			Description: "Open for details",
			Content:     itemBody(row, why),
			Created:     runTS,
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir feed dir: %w", err)
	}
	rss, err := f.ToRss()
	if err != nil {
		return fmt.Errorf("render rss: %w", err)
	}
	if err := os.WriteFile(path, []byte(rss), 0644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	return nil
}

// whyLine is the one-line ranking rationale shown in the item title.
func whyLine(row model.ScoredRow) string {
	parts := []string{
		fmt.Sprintf("mentions %d (Δ%+d)", row.Count, row.Signals.Delta),
	}
	if row.Signals.IsNew {
		parts = append(parts, "NEW")
	}
	if row.Signals.IsSpike {
		parts = append(parts, "SPIKE")
	}
	if row.Signals.Momentum != 0 {
		parts = append(parts, fmt.Sprintf("momentum %+.1f/run", row.Signals.Momentum))
	}
	if n := activeSources(row.Sources); n >= 2 {
		parts = append(parts, fmt.Sprintf("%d sources", n))
	}
	if row.Asset.MarketCap > 0 {
		parts = append(parts, fmt.Sprintf("%s cap $%s",
			strings.ToLower(string(row.Asset.Type)), humanize.Comma(int64(row.Asset.MarketCap))))
	}
	parts = append(parts, fmt.Sprintf("score %.2f", row.Score))
	return strings.Join(parts, " • ")
}

func itemBody(row model.ScoredRow, why string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>$%s — %s</h2>", row.Ticker, html.EscapeString(row.Asset.Name)))
	b.WriteString(fmt.Sprintf("<p><b>Why it's interesting:</b> %s</p>", html.EscapeString(why)))
	if row.Asset.Description != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(row.Asset.Description)))
	}
	b.WriteString(fmt.Sprintf("<p><a href='%s'>Open</a></p>", quoteLink(row)))
	return b.String()
}

func quoteLink(row model.ScoredRow) string {
	if row.Asset.Type == model.AssetCrypto {
		return fmt.Sprintf("https://finance.yahoo.com/quote/%s-USD", row.Ticker)
	}
	return fmt.Sprintf("https://finance.yahoo.com/quote/%s", row.Ticker)
}

func activeSources(sources map[string]int) int {
	n := 0
	for _, c := range sources {
		if c > 0 {
			n++
		}
	}
	return n
}
