package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"TickerRadar/internal/notifier"
	"TickerRadar/internal/pipeline"
)

// Scheduler triggers radar runs on a cron schedule and serves the
// Telegram command surface.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *pipeline.Runner
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, runner *pipeline.Runner, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// Register registers the periodic run.
func (s *Scheduler) Register(runCron string) error {
	if _, err := s.Cron.AddFunc(runCron, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes a run immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runTask()
}

func (s *Scheduler) runTask() {
	if err := s.Runner.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] radar run: %v", err)
		if s.Notifier != nil && s.Notifier.Enabled() {
			if err := s.Notifier.SendWithRetry(s.Ctx, fmt.Sprintf("❌ radar run failed: %v", err), 3); err != nil {
				log.Printf("[ERROR] send notification: %v", err)
			}
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		go s.runTask()
		return "Run triggered."
	case "/top":
		rows, runTS := s.Runner.LastRows()
		if runTS.IsZero() {
			return "No run completed yet."
		}
		return notifier.FormatTopRows(rows, runTS)
	case "/history":
		return notifier.FormatHistoryStatus(s.Runner.Store.History())
	default:
		return "Commands:\n• /run — trigger a run now\n• /top — last run's ranking\n• /history — snapshot history status"
	}
}
