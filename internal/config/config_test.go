package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.History.RetentionHours != 48 {
		t.Errorf("retention default = %d, want 48", cfg.History.RetentionHours)
	}
	if cfg.Signals.SpikeAbsDelta != 4 || cfg.Signals.SpikeMultiplier != 2.5 {
		t.Errorf("spike defaults wrong: %+v", cfg.Signals)
	}
	if cfg.Rank.MinMentions != 2 || cfg.Rank.TopN != 25 {
		t.Errorf("rank defaults wrong: %+v", cfg.Rank)
	}
	if len(cfg.Mentions.Blacklist) == 0 {
		t.Error("expected default blacklist")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
history:
  retention_hours: 24
rank:
  top_n: 10
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FMP_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.History.RetentionHours != 24 {
		t.Errorf("yaml retention = %d, want 24", cfg.History.RetentionHours)
	}
	if cfg.Rank.TopN != 10 {
		t.Errorf("yaml top_n = %d, want 10", cfg.Rank.TopN)
	}
	if cfg.Classify.FMPAPIKey != "from-env" {
		t.Errorf("env override lost: %q", cfg.Classify.FMPAPIKey)
	}
	// Untouched fields still default.
	if cfg.Signals.MomentumWindow != 6 {
		t.Errorf("momentum window default = %d, want 6", cfg.Signals.MomentumWindow)
	}
}

func TestValidate_RejectsBadTiers(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	cfg.Scoring.StockTiers = []CapTier{
		{MaxCap: 250_000_000, Boost: 1.6},
		{MaxCap: 50_000_000, Boost: 2.0}, // out of order
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unordered tiers")
	}

	cfg.Scoring.StockTiers = []CapTier{
		{MaxCap: 50_000_000, Boost: 1.2},
		{MaxCap: 250_000_000, Boost: 1.6}, // boost increases with cap
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for increasing boosts")
	}
}

func TestValidate_CapWindow(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Classify.MinCap = 10_000_000_000
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when min_cap exceeds max_cap")
	}
}
