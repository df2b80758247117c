package syncer

import (
	"context"
	"errors"
	"sync"

	"asset-sync/core/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DueReport summarizes one sweep over due connections.
type DueReport struct {
	Due     int               `json:"due"`
	Started int               `json:"started"`
	Skipped int               `json:"skipped"`
	Errors  int               `json:"errors"`
	Runs    []*models.SyncRun `json:"runs"`
}

// DueConnections returns active connections that never synced or whose
// frequency has elapsed since the last successful sync.
func (s *Service) DueConnections(ctx context.Context) ([]models.Connection, error) {
	conns, err := s.store.ListConnections(ctx, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	due := make([]models.Connection, 0, len(conns))
	for _, c := range conns {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}
	return due, nil
}

// SyncDue pulls every due connection, at most Concurrency at a time.
// Connections already syncing are skipped; a failing connection never stops the sweep.
func (s *Service) SyncDue(ctx context.Context) (*DueReport, error) {
	due, err := s.DueConnections(ctx)
	if err != nil {
		return nil, err
	}

	report := &DueReport{Due: len(due)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Concurrency, 1))

	for _, conn := range due {
		id := conn.ID
		g.Go(func() error {
			run, err := s.SyncConnection(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Started++
				report.Runs = append(report.Runs, run)
			case errors.Is(err, ErrSyncInProgress), errors.Is(err, ErrConnectionInactive):
				report.Skipped++
			default:
				report.Errors++
				s.logger.Error("Scheduled sync failed to start", zap.Uint("connection_id", id), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if report.Due > 0 {
		s.logger.Info("Due sweep finished",
			zap.Int("due", report.Due),
			zap.Int("started", report.Started),
			zap.Int("skipped", report.Skipped),
			zap.Int("errors", report.Errors),
		)
	}
	return report, ctx.Err()
}
