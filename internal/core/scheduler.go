package core

import (
	"context"
	"log/slog"
	"time"
)

// Retainer drops stored rows older than a cutoff.
type Retainer interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type SchedulerService struct {
	store     Retainer
	retention time.Duration
	interval  time.Duration
}

func NewSchedulerService(store Retainer, retention time.Duration) *SchedulerService {
	return &SchedulerService{
		store:     store,
		retention: retention,
		interval:  24 * time.Hour,
	}
}

func (s *SchedulerService) Start(ctx context.Context) {
	go s.runRetentionPolicy(ctx)
}

func (s *SchedulerService) runRetentionPolicy(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup(ctx)
		}
	}
}

// Cleanup runs one retention pass and returns the number of deleted rows.
func (s *SchedulerService) Cleanup(ctx context.Context) int64 {
	if s.retention <= 0 {
		return 0
	}
	count, err := s.store.DeleteOlderThan(ctx, s.retention)
	if err != nil {
		slog.Error("retention cleanup failed", "error", err)
		return 0
	}
	if count > 0 {
		slog.Info("retention cleanup done", "deleted", count)
	}
	return count
}
