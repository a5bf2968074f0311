package service

import (
	"context"
	"time"

	"github.com/timmy/clipforge/internal/logger"
	"github.com/timmy/clipforge/internal/repository"
)

// Sweeper deletes job records a fixed interval after they reach a terminal
// state. Artifacts are never touched; they are addressed by deterministic name
// and reused across jobs.
type Sweeper struct {
	repo      *repository.JobRepository
	retention time.Duration
	interval  time.Duration
	logger    *logger.Logger
}

// SweeperConfig holds configuration for the retention sweeper.
type SweeperConfig struct {
	Retention     time.Duration
	SweepInterval time.Duration
}

// NewSweeper creates a retention sweeper.
// Parameters:
//   - repo: job store.
//   - log: base logger.
//   - cfg: sweeper configuration.
// Returns:
//   - *Sweeper: initialized sweeper.
func NewSweeper(repo *repository.JobRepository, log *logger.Logger, cfg *SweeperConfig) *Sweeper {
	return &Sweeper{
		repo:      repo,
		retention: cfg.Retention,
		interval:  cfg.SweepInterval,
		logger:    log,
	}
}

// Schedule arms a one-shot deletion for a job that just became terminal.
// Parameters:
//   - jobID: job to delete after the retention window.
func (s *Sweeper) Schedule(jobID string) {
	time.AfterFunc(s.retention, func() {
		ctx := logger.WithField(context.Background(), logger.FieldJobID, jobID)
		if err := s.repo.Delete(ctx, jobID); err != nil {
			logger.CtxWarn(ctx, "Retention delete failed: %v", err)
			return
		}
		logger.CtxInfo(ctx, "Expired job record deleted")
	})
}

// Run scans periodically for terminal jobs whose retention window elapsed.
// Timers armed by Schedule do not survive a restart; the scan catches those
// records. Blocks until ctx is cancelled.
// Parameters:
//   - ctx: cancellation context.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.retention)
	jobs, err := s.repo.ListExpired(ctx, cutoff)
	if err != nil {
		s.logger.WithError(err).Warn("Retention scan failed")
		return
	}

	for _, job := range jobs {
		if err := s.repo.Delete(ctx, job.ID); err != nil {
			s.logger.WithField(logger.FieldJobID, job.ID).WithError(err).Warn("Retention delete failed")
			continue
		}
	}

	if len(jobs) > 0 {
		s.logger.WithField(logger.FieldCount, len(jobs)).Info("Retention scan deleted expired jobs")
	}
}
