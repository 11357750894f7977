package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"TickerRadar/internal/config"
	"TickerRadar/internal/feed"
	"TickerRadar/internal/history"
	"TickerRadar/internal/mentions"
	"TickerRadar/internal/model"
	"TickerRadar/internal/notifier"
	"TickerRadar/internal/recorder"
	"TickerRadar/internal/signal"
	"TickerRadar/internal/source"
	"TickerRadar/internal/strategy"
)

// Classifier resolves a ticker to asset metadata, or rejects it.
type Classifier interface {
	Classify(ctx context.Context, ticker string) (model.AssetInfo, bool, error)
}

// Runner executes one full radar run: fetch, aggregate, persist history,
// derive signals, classify, score, rank, render.
type Runner struct {
	Sources    []source.Source
	Tokenizer  *mentions.Tokenizer
	Store      *history.Store
	Classifier Classifier
	Weights    strategy.Weights
	Params     signal.Params
	Cfg        *config.Config
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder

	mu       sync.Mutex
	lastRows []model.ScoredRow
	lastRun  time.Time
}

// NewRunner creates a Runner.
func NewRunner(sources []source.Source, tok *mentions.Tokenizer, store *history.Store,
	cls Classifier, cfg *config.Config, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Runner {
	return &Runner{
		Sources:    sources,
		Tokenizer:  tok,
		Store:      store,
		Classifier: cls,
		Weights:    strategy.WeightsFromConfig(cfg),
		Params: signal.Params{
			MomentumWindow:  cfg.Signals.MomentumWindow,
			NoveltyLookback: time.Duration(cfg.Signals.NoveltyLookbackHours) * time.Hour,
			SpikeAbsDelta:   cfg.Signals.SpikeAbsDelta,
			SpikeMultiplier: cfg.Signals.SpikeMultiplier,
		},
		Cfg:      cfg,
		Notifier: tn,
		Recorder: rec,
	}
}

// Run executes one run. Every upstream failure degrades to "no data";
// the only error worth returning is a failure to write the feed.
func (r *Runner) Run(ctx context.Context) error {
	now := time.Now()
	log.Println("[INFO] radar run starting")

	// Fetch and tally each source; a dead source contributes nothing.
	perSource := map[string]model.MentionCount{}
	for _, src := range r.Sources {
		texts, err := src.Fetch(ctx)
		if err != nil {
			log.Printf("[WARN] source %s unavailable: %v", src.Name(), err)
			continue
		}
		perSource[src.Name()] = r.Tokenizer.Count(texts)
	}
	merged, perSource := mentions.Aggregate(perSource)
	log.Printf("[INFO] scanned %d distinct tickers across %d sources", len(merged), len(perSource))

	// Persist the snapshot: append, trim, save. A failed save loses at
	// most this run's update.
	r.Store.Append(model.Snapshot{TS: now.Unix(), Counts: merged, Sources: perSource}, now)
	previous := r.Store.PreviousCounts()
	if err := r.Store.Save(); err != nil {
		log.Printf("[ERROR] save history: %v", err)
	}
	hist := r.Store.History()

	sigs := signal.Derive(hist, merged, previous, r.Params, now)

	candidates := r.candidates(merged)
	rows := make([]model.ScoredRow, 0, len(candidates))
	classified := 0
	for _, tk := range candidates {
		info, found, err := r.Classifier.Classify(ctx, tk)
		classified++
		if err != nil {
			log.Printf("[WARN] classify %s: upstream gap: %v", tk, err)
		}
		if !found {
			continue
		}
		srcCounts := make(map[string]int, len(perSource))
		for name, counts := range perSource {
			srcCounts[name] = counts[tk]
		}
		sig := sigs[tk]
		rows = append(rows, model.ScoredRow{
			Ticker:   tk,
			Count:    merged[tk],
			Previous: previous[tk],
			Signals:  sig,
			Sources:  srcCounts,
			Asset:    info,
			Score:    strategy.Score(merged[tk], sig, srcCounts, info, r.Weights),
		})
	}

	ranked := strategy.Rank(rows, r.Cfg.Rank.MinMentions, r.Cfg.Rank.TopN)
	log.Printf("[INFO] classified %d candidates, surfacing %d", classified, len(ranked))

	meta := feed.Meta{
		Title:       r.Cfg.Feed.Title,
		Link:        r.Cfg.Feed.Link,
		Description: r.Cfg.Feed.Description,
	}
	if err := feed.WriteRSS(ranked, now, meta, r.Cfg.Feed.Path); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}

	if r.Notifier != nil && r.Notifier.Enabled() && len(ranked) > 0 {
		top := ranked
		if len(top) > 5 {
			top = top[:5]
		}
		if err := r.Notifier.SendWithRetry(ctx, notifier.FormatTopRows(top, now), 3); err != nil {
			log.Printf("[ERROR] send notification: %v", err)
		}
	}

	r.record(now, len(merged), len(candidates), classified, ranked)

	r.mu.Lock()
	r.lastRows = ranked
	r.lastRun = now
	r.mu.Unlock()

	log.Println("[INFO] radar run finished")
	return nil
}

// candidates filters the merged counts to tickers worth classifying:
// above the mention floor, ordered count descending (ticker ascending
// on ties), capped at the per-run classification budget.
func (r *Runner) candidates(merged model.MentionCount) []string {
	out := make([]string, 0, len(merged))
	for tk, n := range merged {
		if n >= r.Cfg.Rank.MinMentions {
			out = append(out, tk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if merged[out[i]] != merged[out[j]] {
			return merged[out[i]] > merged[out[j]]
		}
		return out[i] < out[j]
	})
	if len(out) > r.Cfg.Classify.MaxClassify {
		out = out[:r.Cfg.Classify.MaxClassify]
	}
	return out
}

func (r *Runner) record(now time.Time, scanned, candidates, classified int, ranked []model.ScoredRow) {
	runID := uuid.NewString()
	if err := r.Recorder.RecordRun(&recorder.RunSummary{
		RunID:      runID,
		TS:         now.Unix(),
		Scanned:    scanned,
		Candidates: candidates,
		Classified: classified,
		Surfaced:   len(ranked),
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if err := r.Recorder.RecordRows(runID, now.Unix(), ranked); err != nil {
		log.Printf("[ERROR] record rows: %v", err)
	}
}

// LastRows returns the most recent run's ranked rows.
func (r *Runner) LastRows() ([]model.ScoredRow, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]model.ScoredRow, len(r.lastRows))
	copy(rows, r.lastRows)
	return rows, r.lastRun
}
