// Package scheduler runs the periodic maturity scan.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/notifier"
)

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	cron       *cron.Cron
	scanner    portssvc.MaturityScannerSvc
	notifier   notifier.MaturityNotifier
	logger     *slog.Logger
	windowDays int
}

// New creates a scheduler around the maturity scanner and notifier.
func New(scanner portssvc.MaturityScannerSvc, maturityNotifier notifier.MaturityNotifier, logger *slog.Logger, windowDays int) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		scanner:    scanner,
		notifier:   maturityNotifier,
		logger:     logger,
		windowDays: windowDays,
	}
}

// Start registers the maturity scan on the given cron schedule and starts the
// runner in its own goroutine.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runMaturityScan); err != nil {
		return fmt.Errorf("failed to schedule maturity scan: %w", err)
	}
	s.cron.Start()
	s.logger.Info("Scheduler started", slog.String("maturity_scan_schedule", schedule))
	return nil
}

// Stop halts the runner and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runMaturityScan() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	windowEnd := time.Now().AddDate(0, 0, s.windowDays)
	instruments, err := s.scanner.InstrumentsMaturingBy(ctx, windowEnd)
	if err != nil {
		s.logger.Error("Maturity scan failed", slog.String("error", err.Error()))
		return
	}
	if len(instruments) == 0 {
		s.logger.Debug("Maturity scan found nothing due", slog.String("window_end", windowEnd.Format("2006-01-02")))
		return
	}

	if err := s.notifier.SendMaturityReminder(instruments, windowEnd); err != nil {
		s.logger.Error("Failed to deliver maturity reminder", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Maturity scan complete", slog.Int("instrument_count", len(instruments)))
}
