package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Syncer is the part of the inbox usecase the scheduler drives.
type Syncer interface {
	SyncAll(ctx context.Context) (synced int, failed int)
}

// SyncScheduler periodically syncs every connected mailbox
type SyncScheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewSyncScheduler creates a new scheduler. A non-positive interval disables it.
func NewSyncScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *SyncScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncScheduler{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SyncScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("[Scheduler] sync interval not set, scheduler disabled")
		close(s.done)
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("[Scheduler] starting mailbox sync scheduler", "interval", s.interval)

	go func() {
		defer close(s.done)

		// Run immediately on start
		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce(ctx)
			case <-ctx.Done():
				s.logger.Info("[Scheduler] scheduler stopped")
				return
			}
		}
	}()
}

// Stop cancels an in-flight pass and waits for the loop to exit
func (s *SyncScheduler) Stop() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	<-s.done
}

func (s *SyncScheduler) runOnce(ctx context.Context) {
	start := time.Now()
	synced, failed := s.syncer.SyncAll(ctx)
	if synced == 0 && failed == 0 {
		return
	}
	s.logger.Info("[Scheduler] sync pass finished", "synced", synced, "failed", failed, "duration", time.Since(start))
}
