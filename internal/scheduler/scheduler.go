// Package scheduler runs the recurring reminder check.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/taskflow/internal/logging"
)

// DefaultInterval is the time between reminder checks.
const DefaultInterval = 30 * time.Second

// Scheduler runs a ReminderChecker on a cron interval.
type Scheduler struct {
	cron     *cron.Cron
	checker  *ReminderChecker
	interval time.Duration

	mu      sync.Mutex
	running bool
	entry   cron.EntryID
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler for checker.
func NewScheduler(checker *ReminderChecker, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		checker:  checker,
		interval: interval,
	}
}

// Checker returns the reminder checker the scheduler drives.
func (s *Scheduler) Checker() *ReminderChecker {
	return s.checker
}

// Start runs one check immediately, then every interval until Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	jobCtx, cancel := context.WithCancel(ctx)
	spec := fmt.Sprintf("@every %s", s.interval)
	entry, err := s.cron.AddFunc(spec, func() {
		s.checker.Check(jobCtx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to add reminder check: %w", err)
	}

	s.checker.Check(jobCtx)

	s.cron.Start()
	s.entry = entry
	s.cancel = cancel
	s.running = true

	logging.LoggerFromContext(ctx).Debug("scheduler started", "interval", s.interval.String())
	return nil
}

// Stop stops the timer and waits for an in-flight check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.cron.Remove(s.entry)
	s.cancel()
	s.running = false

	logging.DebugLog("scheduler stopped")
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
