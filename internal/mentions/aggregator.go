package mentions

import (
	"regexp"

	"TickerRadar/internal/model"
)

var tickerRe = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// Tokenizer extracts plausible ticker symbols from raw text.
type Tokenizer struct {
	blacklist map[string]struct{}
}

// NewTokenizer creates a Tokenizer with the given acronym blacklist.
func NewTokenizer(blacklist []string) *Tokenizer {
	bl := make(map[string]struct{}, len(blacklist))
	for _, w := range blacklist {
		bl[w] = struct{}{}
	}
	return &Tokenizer{blacklist: bl}
}

// Extract returns every plausible ticker token in text, in order of
// appearance. Duplicates are kept; each occurrence is one mention.
func (t *Tokenizer) Extract(text string) []string {
	var out []string
	for _, tk := range tickerRe.FindAllString(text, -1) {
		if t.Plausible(tk) {
			out = append(out, tk)
		}
	}
	return out
}

// Plausible reports whether a token looks like a real ticker symbol.
func (t *Tokenizer) Plausible(tk string) bool {
	if _, banned := t.blacklist[tk]; banned {
		return false
	}
	return len(tk) >= 2 && len(tk) <= 5
}

// Count tallies mentions in a batch of texts from one source.
func (t *Tokenizer) Count(texts []string) model.MentionCount {
	counts := model.MentionCount{}
	for _, text := range texts {
		for _, tk := range t.Extract(text) {
			counts[tk]++
		}
	}
	return counts
}

// Aggregate merges per-source mention counts into one run-level mapping,
// keeping the per-source breakdown for cross-source detection.
func Aggregate(perSource map[string]model.MentionCount) (model.MentionCount, map[string]model.MentionCount) {
	merged := model.MentionCount{}
	for _, counts := range perSource {
		for tk, n := range counts {
			merged[tk] += n
		}
	}
	return merged, perSource
}
