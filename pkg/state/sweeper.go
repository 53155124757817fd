package state

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"doctor/pkg/logger"
)

// Sweeper periodically removes expired interactions from a store.
type Sweeper struct {
	log       *logger.Logger
	store     Store
	interval  time.Duration
	scheduler *cron.Cron
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(log *logger.Logger, store Store, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:       log,
		store:     store,
		interval:  interval,
		scheduler: cron.New(),
	}
}

// Start schedules the sweep job.
func (s *Sweeper) Start() error {
	if s.interval <= 0 {
		s.log.Info("Interaction sweeper disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.scheduler.AddFunc(spec, s.RunOnce); err != nil {
		return fmt.Errorf("scheduling interaction sweep: %w", err)
	}
	s.scheduler.Start()

	s.log.Info("Started interaction sweeper", zap.Duration("interval", s.interval))
	return nil
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.store.Sweep(ctx, time.Now())
	if err != nil {
		s.log.Error("Interaction sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.log.Info("Expired interactions removed", zap.Int("count", removed))
	}
}

// Stop stops the scheduler and waits for a running sweep.
func (s *Sweeper) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
}
