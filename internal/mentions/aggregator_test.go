package mentions

import (
	"reflect"
	"testing"

	"TickerRadar/internal/config"
	"TickerRadar/internal/model"
)

func TestExtract_PatternAndBlacklist(t *testing.T) {
	tok := NewTokenizer(config.DefaultBlacklist)

	tests := []struct {
		text string
		want []string
	}{
		{"GME to the moon", []string{"GME"}},
		{"the CEO sold his ETF for USD", nil},
		{"A TOOLONGG x", nil},
		{"BBBY BBBY BBBY", []string{"BBBY", "BBBY", "BBBY"}},
		{"lowercase gme is ignored", nil},
		{"mixed: AMC and amc and AI", []string{"AMC"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := tok.Extract(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCount_TalliesOccurrences(t *testing.T) {
	tok := NewTokenizer(config.DefaultBlacklist)
	counts := tok.Count([]string{
		"GME GME squeeze",
		"AMC and GME again",
	})
	if counts["GME"] != 3 {
		t.Errorf("expected 3 GME mentions, got %d", counts["GME"])
	}
	if counts["AMC"] != 1 {
		t.Errorf("expected 1 AMC mention, got %d", counts["AMC"])
	}
}

func TestAggregate_SumsAcrossSources(t *testing.T) {
	perSource := map[string]model.MentionCount{
		"catalog": {"GME": 3, "AMC": 1},
		"forum":   {"GME": 2, "SOFI": 4},
	}
	merged, sources := Aggregate(perSource)

	if merged["GME"] != 5 {
		t.Errorf("expected merged GME=5, got %d", merged["GME"])
	}
	if merged["AMC"] != 1 || merged["SOFI"] != 4 {
		t.Errorf("unexpected merged counts: %v", merged)
	}
	// Per-source breakdown survives for cross-source detection.
	if sources["catalog"]["GME"] != 3 || sources["forum"]["GME"] != 2 {
		t.Errorf("per-source counts lost: %v", sources)
	}
}
