package sync

import (
	"context"
	"log/slog"
	"time"
)

// SchedulerConfig controls the background sync cadence.
type SchedulerConfig struct {
	// Interval between incremental runs.
	Interval time.Duration

	// Window of catalog modifications each incremental run covers. It
	// should exceed Interval so runs overlap rather than leave gaps.
	Window time.Duration

	// FullReindexHour is the UTC hour (0-23) of the daily full rebuild.
	FullReindexHour int
}

// Scheduler drives the orchestrator on a fixed cadence: incremental syncs
// on a ticker plus one full rebuild per day. Failures are logged and the
// next tick proceeds.
type Scheduler struct {
	orchestrator *Orchestrator
	cfg          SchedulerConfig
	logger       *slog.Logger
	done         chan struct{}
	stopped      chan struct{}
}

// NewScheduler creates a scheduler around the orchestrator.
func NewScheduler(o *Orchestrator, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		orchestrator: o,
		cfg:          cfg,
		logger:       logger,
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
}

// Start launches the background loop. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop signals the loop to exit and waits for it.
func (s *Scheduler) Stop() {
	close(s.done)
	<-s.stopped
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.stopped)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	full := time.NewTimer(s.untilFullReindex())
	defer full.Stop()

	s.logger.Info("sync scheduler started",
		slog.Duration("interval", s.cfg.Interval),
		slog.Duration("window", s.cfg.Window),
		slog.Int("full_reindex_hour", s.cfg.FullReindexHour),
	)

	for {
		select {
		case <-ticker.C:
			if _, err := s.orchestrator.SyncRecent(ctx, s.cfg.Window); err != nil {
				s.logger.Error("incremental sync failed", slog.String("error", err.Error()))
			}
		case <-full.C:
			if _, err := s.orchestrator.SyncAll(ctx); err != nil {
				s.logger.Error("scheduled full reindex failed", slog.String("error", err.Error()))
			}
			full.Reset(s.untilFullReindex())
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-s.done:
			s.logger.Info("sync scheduler stopped", slog.String("reason", "shutdown"))
			return
		}
	}
}

// untilFullReindex returns the duration until the next daily rebuild slot.
func (s *Scheduler) untilFullReindex() time.Duration {
	now := s.orchestrator.now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.FullReindexHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
