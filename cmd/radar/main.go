package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TickerRadar/internal/classifier"
	"TickerRadar/internal/config"
	"TickerRadar/internal/history"
	"TickerRadar/internal/mentions"
	"TickerRadar/internal/notifier"
	"TickerRadar/internal/pipeline"
	"TickerRadar/internal/recorder"
	"TickerRadar/internal/scheduler"
	"TickerRadar/internal/source"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerRadar starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	timeout := time.Duration(cfg.Sources.TimeoutSeconds) * time.Second

	// Init mention sources
	var sources []source.Source
	if cfg.Sources.CatalogURL != "" {
		sources = append(sources, source.NewCatalogSource(cfg.Sources.CatalogURL, timeout, cfg.Proxy))
	}
	for i, u := range cfg.Sources.ForumURLs {
		label := "forum"
		if len(cfg.Sources.ForumURLs) > 1 {
			label = "forum" + string(rune('1'+i))
		}
		sources = append(sources, source.NewForumSource(label, u, timeout, cfg.Proxy))
	}
	for _, src := range sources {
		log.Printf("[INFO] mention source: %s", src.Name())
	}

	tok := mentions.NewTokenizer(cfg.Mentions.Blacklist)

	// Init history store
	store := history.NewStore(cfg.History.Path, time.Duration(cfg.History.RetentionHours)*time.Hour)

	// Init classifier
	profiles := classifier.NewFMPClient(cfg.Classify.FMPAPIKey, timeout, cfg.Proxy)
	if !profiles.Available() {
		log.Println("[WARN] FMP_API_KEY not set, stock validation disabled")
	}
	options := classifier.NewYahooOptionsClient(timeout, cfg.Proxy)
	coins := classifier.NewCoinCache(
		cfg.Classify.CoinCachePath,
		time.Duration(cfg.Classify.CoinCacheTTLHours)*time.Hour,
		cfg.Classify.CoinTopN,
		classifier.NewCoinGeckoLister(timeout, cfg.Proxy),
	)
	cls := classifier.New(profiles, options, coins, cfg.Classify.LookupsPerSecond, classifier.Rules{
		Exchanges:         cfg.Classify.Exchanges,
		MinCap:            cfg.Classify.MinCap,
		MaxCap:            cfg.Classify.MaxCap,
		RequireOptionable: cfg.Classify.RequireOptionable,
	})

	// Init Telegram notifier (optional)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := pipeline.NewRunner(sources, tok, store, cls, cfg, tn, rec)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, runner, tn)
	if err := sched.Register(cfg.Schedule.RunCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing run now")
		go sched.RunNow()
	}

	log.Println("[INFO] TickerRadar is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TickerRadar stopped")
}
