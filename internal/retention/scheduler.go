package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the pruner on a cron schedule, e.g. "0 3 * * *" for
// daily at 3 AM. An empty schedule disables it.
type Scheduler struct {
	pruner   *Pruner
	schedule string
	cron     *cron.Cron
	log      *logrus.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler over the pruner. The schedule uses the
// standard five-field cron syntax.
func NewScheduler(pruner *Pruner, schedule string, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		pruner:   pruner,
		schedule: schedule,
		cron:     cron.New(),
		log:      log,
	}
}

// Start validates the schedule and begins running the pruner on it. The
// scheduler stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.log.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runPrune); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.log.WithField("schedule", s.schedule).Info("retention scheduler started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runPrune() {
	deleted, err := s.pruner.Prune()
	if err != nil {
		s.log.WithError(err).Error("scheduled pruning failed")
		return
	}
	if deleted > 0 {
		s.log.WithField("deleted", deleted).Info("scheduled pruning completed")
	} else {
		s.log.Debug("scheduled pruning completed, nothing to delete")
	}
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.log.Info("retention scheduler stopped")
}

// IsRunning reports whether the scheduler has been started and not stopped.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled prune time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
