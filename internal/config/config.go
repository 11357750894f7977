package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CapTier maps a market-cap ceiling to a score boost. Tiers are ordered
// ascending by MaxCap; a cap above the last tier gets boost 1.0.
type CapTier struct {
	MaxCap float64 `yaml:"max_cap"`
	Boost  float64 `yaml:"boost"`
}

// Config holds all application configuration.
type Config struct {
	Sources struct {
		CatalogURL     string   `yaml:"catalog_url"`
		ForumURLs      []string `yaml:"forum_urls"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
	} `yaml:"sources"`
	Mentions struct {
		Blacklist []string `yaml:"blacklist"`
	} `yaml:"mentions"`
	History struct {
		Path           string `yaml:"path"`
		RetentionHours int    `yaml:"retention_hours"`
	} `yaml:"history"`
	Signals struct {
		MomentumWindow       int     `yaml:"momentum_window"`
		NoveltyLookbackHours int     `yaml:"novelty_lookback_hours"`
		SpikeAbsDelta        int     `yaml:"spike_abs_delta"`
		SpikeMultiplier      float64 `yaml:"spike_multiplier"`
	} `yaml:"signals"`
	Classify struct {
		FMPAPIKey         string   `yaml:"fmp_api_key"`
		Exchanges         []string `yaml:"exchanges"`
		MinCap            float64  `yaml:"min_cap"`
		MaxCap            float64  `yaml:"max_cap"`
		RequireOptionable bool     `yaml:"require_optionable"`
		CoinCachePath     string   `yaml:"coin_cache_path"`
		CoinCacheTTLHours int      `yaml:"coin_cache_ttl_hours"`
		CoinTopN          int      `yaml:"coin_top_n"`
		MaxClassify       int      `yaml:"max_classify"`
		LookupsPerSecond  float64  `yaml:"lookups_per_second"`
	} `yaml:"classify"`
	Scoring struct {
		DeltaWeight           float64   `yaml:"delta_weight"`
		CountWeight           float64   `yaml:"count_weight"`
		MomentumWeight        float64   `yaml:"momentum_weight"`
		NewBonus              float64   `yaml:"new_bonus"`
		CrossSourceMultiplier float64   `yaml:"cross_source_multiplier"`
		StockTiers            []CapTier `yaml:"stock_tiers"`
		CryptoTiers           []CapTier `yaml:"crypto_tiers"`
	} `yaml:"scoring"`
	Rank struct {
		MinMentions int `yaml:"min_mentions"`
		TopN        int `yaml:"top_n"`
	} `yaml:"rank"`
	Feed struct {
		Path        string `yaml:"path"`
		Title       string `yaml:"title"`
		Link        string `yaml:"link"`
		Description string `yaml:"description"`
	} `yaml:"feed"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RunCron string `yaml:"run_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// DefaultBlacklist rejects common finance/internet acronyms that match
// the ticker pattern but are never tickers worth surfacing.
var DefaultBlacklist = []string{
	"USD", "USDT", "USDC", "CEO", "CFO", "SEC", "FED", "FOMC",
	"NYSE", "NASDAQ", "ETF", "IPO", "AI", "DD", "IMO", "LOL",
	"YOLO", "FOMO", "HODL", "ATH", "TLDR",
}

// Load reads config from a YAML file, then applies environment variable
// overrides and fills in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.Classify.FMPAPIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_RUN"); v != "" {
		cfg.Schedule.RunCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("MAX_CAP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Classify.MaxCap = f
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Sources.CatalogURL == "" {
		cfg.Sources.CatalogURL = "https://a.4cdn.org/biz/catalog.json"
	}
	if cfg.Sources.TimeoutSeconds == 0 {
		cfg.Sources.TimeoutSeconds = 12
	}
	if len(cfg.Mentions.Blacklist) == 0 {
		cfg.Mentions.Blacklist = DefaultBlacklist
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "data/mention_history.json"
	}
	if cfg.History.RetentionHours == 0 {
		cfg.History.RetentionHours = 48
	}
	if cfg.Signals.MomentumWindow == 0 {
		cfg.Signals.MomentumWindow = 6
	}
	if cfg.Signals.NoveltyLookbackHours == 0 {
		cfg.Signals.NoveltyLookbackHours = 24
	}
	if cfg.Signals.SpikeAbsDelta == 0 {
		cfg.Signals.SpikeAbsDelta = 4
	}
	if cfg.Signals.SpikeMultiplier == 0 {
		cfg.Signals.SpikeMultiplier = 2.5
	}
	if len(cfg.Classify.Exchanges) == 0 {
		cfg.Classify.Exchanges = []string{"NASDAQ", "NYSE", "AMEX"}
	}
	if cfg.Classify.MaxCap == 0 {
		cfg.Classify.MaxCap = 5_000_000_000
	}
	if cfg.Classify.CoinCachePath == "" {
		cfg.Classify.CoinCachePath = "data/coin_cache.json"
	}
	if cfg.Classify.CoinCacheTTLHours == 0 {
		cfg.Classify.CoinCacheTTLHours = 24
	}
	if cfg.Classify.CoinTopN == 0 {
		cfg.Classify.CoinTopN = 250
	}
	if cfg.Classify.MaxClassify == 0 {
		cfg.Classify.MaxClassify = 40
	}
	if cfg.Classify.LookupsPerSecond == 0 {
		cfg.Classify.LookupsPerSecond = 2
	}
	if cfg.Scoring.DeltaWeight == 0 {
		cfg.Scoring.DeltaWeight = 2.2
	}
	if cfg.Scoring.CountWeight == 0 {
		cfg.Scoring.CountWeight = 0.35
	}
	if cfg.Scoring.MomentumWeight == 0 {
		cfg.Scoring.MomentumWeight = 1.6
	}
	if cfg.Scoring.NewBonus == 0 {
		cfg.Scoring.NewBonus = 2.0
	}
	if cfg.Scoring.CrossSourceMultiplier == 0 {
		cfg.Scoring.CrossSourceMultiplier = 1.6
	}
	if len(cfg.Scoring.StockTiers) == 0 {
		cfg.Scoring.StockTiers = []CapTier{
			{MaxCap: 50_000_000, Boost: 2.0},
			{MaxCap: 250_000_000, Boost: 1.6},
			{MaxCap: 1_000_000_000, Boost: 1.3},
			{MaxCap: 5_000_000_000, Boost: 1.1},
		}
	}
	if len(cfg.Scoring.CryptoTiers) == 0 {
		cfg.Scoring.CryptoTiers = []CapTier{
			{MaxCap: 50_000_000, Boost: 1.6},
			{MaxCap: 250_000_000, Boost: 1.3},
			{MaxCap: 1_000_000_000, Boost: 1.15},
			{MaxCap: 5_000_000_000, Boost: 1.05},
		}
	}
	if cfg.Rank.MinMentions == 0 {
		cfg.Rank.MinMentions = 2
	}
	if cfg.Rank.TopN == 0 {
		cfg.Rank.TopN = 25
	}
	if cfg.Feed.Path == "" {
		cfg.Feed.Path = "out/feed-ticker-radar.xml"
	}
	if cfg.Feed.Title == "" {
		cfg.Feed.Title = "TickerRadar: Chatter Momentum Plays"
	}
	if cfg.Feed.Link == "" {
		cfg.Feed.Link = "https://boards.4chan.org/biz/"
	}
	if cfg.Feed.Description == "" {
		cfg.Feed.Description = "New, spiking and cross-source tickers ranked from chatter mentions"
	}
	if cfg.Schedule.RunCron == "" {
		cfg.Schedule.RunCron = "0 0 */2 * * *"
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Sources.CatalogURL == "" && len(c.Sources.ForumURLs) == 0 {
		return fmt.Errorf("at least one mention source is required")
	}
	if c.History.RetentionHours <= 0 {
		return fmt.Errorf("history.retention_hours must be positive")
	}
	if c.Signals.MomentumWindow < 2 {
		return fmt.Errorf("signals.momentum_window must be at least 2")
	}
	if c.Rank.TopN <= 0 {
		return fmt.Errorf("rank.top_n must be positive")
	}
	if c.Classify.MinCap > c.Classify.MaxCap {
		return fmt.Errorf("classify.min_cap must not exceed classify.max_cap")
	}
	for _, tiers := range [][]CapTier{c.Scoring.StockTiers, c.Scoring.CryptoTiers} {
		for i := 1; i < len(tiers); i++ {
			if tiers[i].MaxCap <= tiers[i-1].MaxCap {
				return fmt.Errorf("scoring tiers must be ascending by max_cap")
			}
			if tiers[i].Boost > tiers[i-1].Boost {
				return fmt.Errorf("scoring tier boosts must not increase with cap")
			}
		}
	}
	return nil
}
