package syncer

import (
	"context"
	"errors"
	"fmt"

	"asset-sync/core/lock"
	"asset-sync/core/metrics"
	"asset-sync/core/models"
	"asset-sync/core/reconcile"

	"go.uber.org/zap"
)

// RetryReport summarizes one retry sweep.
type RetryReport struct {
	Candidates int `json:"candidates"`
	Retried    int `json:"retried"`
	Recovered  int `json:"recovered"`
	Skipped    int `json:"skipped"`
	Abandoned  int `json:"abandoned"`
}

// RetryFailedRuns re-executes failed pull runs whose retry time has come,
// on the same run record.
func (s *Service) RetryFailedRuns(ctx context.Context) (*RetryReport, error) {
	runs, err := s.store.RetryableRuns(ctx, s.now(), s.cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	report := &RetryReport{Candidates: len(runs)}
	for i := range runs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		run := &runs[i]
		result := s.retryRun(ctx, run)
		metrics.RetriesTotal.WithLabelValues(result).Inc()

		switch result {
		case "skipped":
			report.Skipped++
		case "abandoned":
			report.Abandoned++
		default:
			report.Retried++
			if result == "recovered" {
				report.Recovered++
			}
		}
	}

	if report.Candidates > 0 {
		s.logger.Info("Retry sweep finished",
			zap.Int("candidates", report.Candidates),
			zap.Int("retried", report.Retried),
			zap.Int("recovered", report.Recovered),
			zap.Int("skipped", report.Skipped),
			zap.Int("abandoned", report.Abandoned),
		)
	}
	return report, nil
}

func (s *Service) retryRun(ctx context.Context, run *models.SyncRun) string {
	l := s.logger.With(zap.Uint("connection_id", run.ConnectionID), zap.String("run_id", run.RunID))

	conn, p, err := s.LoadConnection(ctx, run.ConnectionID)
	if err != nil {
		if !errors.Is(err, ErrConnectionNotFound) && !errors.Is(err, ErrConnectionInactive) && conn == nil {
			l.Error("Failed to load connection for retry", zap.Error(err))
			return "skipped"
		}
		return s.abandon(ctx, run, err)
	}

	held, err := s.acquire(ctx, conn.ID)
	if err != nil {
		l.Debug("Retry deferred", zap.Error(err))
		return "skipped"
	}
	defer s.release(ctx, held)

	claimed, err := s.store.ClaimRetry(ctx, run, s.now())
	if err != nil {
		l.Error("Failed to claim run for retry", zap.Error(err))
		return "skipped"
	}
	if !claimed {
		return "skipped"
	}

	run.ResetCounters()
	run.NextRetryAt = nil
	s.pull(ctx, conn, p, run)

	if run.Status == models.RunFailed {
		return "failed"
	}
	return "recovered"
}

// abandon spends one attempt on a run whose connection can no longer be
// synced and stops further retries.
func (s *Service) abandon(ctx context.Context, run *models.SyncRun, cause error) string {
	claimed, err := s.store.ClaimRetry(ctx, run, s.now())
	if err != nil || !claimed {
		return "skipped"
	}

	finished := s.now()
	run.Status = models.RunFailed
	run.NextRetryAt = nil
	run.FinishedAt = &finished
	run.ErrorMessage = fmt.Sprintf("retry abandoned: %v", cause)
	if err := s.store.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("Failed to save abandoned run", zap.String("run_id", run.RunID), zap.Error(err))
	}
	s.logger.Warn("Retry abandoned", zap.String("run_id", run.RunID), zap.Error(cause))
	return "abandoned"
}

// SweepStaleRuns fails runs stuck in running past StaleRunAfter. A run whose
// connection lock is still held is alive and left alone.
func (s *Service) SweepStaleRuns(ctx context.Context) (int, error) {
	runs, err := s.store.StaleRunningRuns(ctx, s.now().Add(-s.cfg.StaleRunAfter()))
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range runs {
		run := &runs[i]

		held, err := s.locker.TryLock(ctx, lock.ConnectionKey(run.ConnectionID))
		if err != nil {
			if !errors.Is(err, lock.ErrNotObtained) {
				s.logger.Error("Failed to lock connection for stale sweep", zap.Uint("connection_id", run.ConnectionID), zap.Error(err))
			}
			continue
		}

		conn := &models.Connection{ID: run.ConnectionID}
		if c, err := s.store.GetConnection(ctx, run.ConnectionID); err == nil {
			conn = c
		}
		s.finish(ctx, conn, run, &reconcile.Tally{}, fmt.Errorf("run abandoned after %s in running state", s.cfg.StaleRunAfter()))
		s.release(ctx, held)
		swept++
	}
	return swept, nil
}
