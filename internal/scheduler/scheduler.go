package scheduler

import (
	"context"
	"log/slog"
	"time"

	"harvester/internal/domain"
)

// Harvester defines the interface for a single harvest invocation.
type Harvester interface {
	Harvest(ctx context.Context) (*domain.HarvestStats, error)
}

// Scheduler re-invokes the harvester on a fixed interval. Invocations never overlap.
type Scheduler struct {
	harvester Harvester
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

func NewScheduler(harvester Harvester, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		harvester: harvester,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runHarvest(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runHarvest(ctx)
		}
	}
}

func (s *Scheduler) runHarvest(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.harvester.Harvest(runCtx)
	if err != nil {
		s.logger.Error("harvest failed", "error", err)
		return
	}
	s.logger.Debug("harvest invocation done", "outcome", stats.Outcome, "run_id", stats.RunID)
}
