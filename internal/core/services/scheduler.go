package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// sweepHistoryLimit is how many scheduled runs are kept.
const sweepHistoryLimit = 100

var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs a non-forced sweep every configured interval. The
// schedule is persisted, so a restarted process resumes the countdown.
// At most one scheduled sweep runs at a time.
type Scheduler struct {
	settings    domain.SweepSettings
	store       driven.SweepStore
	coordinator driving.ModelCoordinator
	tick        time.Duration
	now         func() time.Time

	mu       sync.Mutex
	running  bool
	sweeping bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler for the given sweep settings.
func NewScheduler(
	settings domain.SweepSettings,
	store driven.SweepStore,
	coordinator driving.ModelCoordinator,
) *Scheduler {
	return &Scheduler{
		settings:    settings,
		store:       store,
		coordinator: coordinator,
		tick:        time.Minute,
		now:         time.Now,
	}
}

// Start runs the scheduler loop until ctx is cancelled or Stop is called.
// Calling Start on a running scheduler returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if err := s.syncSchedule(ctx); err != nil {
		logger.Warn("Syncing sweep schedule: %v", err)
	}

	s.checkDue(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.checkDue(ctx)
		}
	}
}

// Stop ends the loop and waits for it and any in-flight sweep to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// History returns the most recent scheduled runs, newest first.
func (s *Scheduler) History(ctx context.Context, limit int) ([]domain.SweepRun, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.store.RecentRuns(ctx, limit)
}

// syncSchedule creates the stored schedule on first run and applies
// changed settings afterwards.
func (s *Scheduler) syncSchedule(ctx context.Context) error {
	schedule, err := s.store.LoadSchedule(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	if schedule == nil {
		schedule = domain.NewSweepSchedule(s.settings, now)
	} else {
		schedule.Apply(s.settings, now)
	}
	return s.store.SaveSchedule(ctx, schedule)
}

func (s *Scheduler) checkDue(ctx context.Context) {
	schedule, err := s.store.LoadSchedule(ctx)
	if err != nil {
		logger.Warn("Loading sweep schedule: %v", err)
		return
	}
	if schedule == nil || !schedule.Due(s.now()) {
		return
	}
	s.startSweep(ctx, schedule)
}

// startSweep runs the sweep in the background unless one is already
// running.
func (s *Scheduler) startSweep(ctx context.Context, schedule *domain.SweepSchedule) {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		logger.Debug("Scheduled sweep still running, skipping tick")
		return
	}
	s.sweeping = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.sweeping = false
			s.mu.Unlock()
		}()

		run := s.sweep(ctx)
		schedule.Complete(run)
		s.finish(ctx, schedule, run)
	}()
}

func (s *Scheduler) sweep(ctx context.Context) domain.SweepRun {
	started := s.now()
	if s.coordinator == nil {
		return domain.NewSweepRun(nil, started, s.now(), nil)
	}

	report, err := s.coordinator.Sweep(ctx, false)
	run := domain.NewSweepRun(report, started, s.now(), err)
	logger.Info("Scheduled sweep rebuilt %d source and %d group model(s), %d failure(s)",
		run.SourcesUpdated, run.GroupsUpdated, run.Failures)
	return run
}

// finish persists the schedule and the run. Storage errors are logged
// since there is no caller to return them to.
func (s *Scheduler) finish(ctx context.Context, schedule *domain.SweepSchedule, run domain.SweepRun) {
	if err := s.store.SaveSchedule(ctx, schedule); err != nil {
		logger.Warn("Saving sweep schedule: %v", err)
	}
	if err := s.store.RecordRun(ctx, run); err != nil {
		logger.Warn("Recording sweep run: %v", err)
	}
	if err := s.store.PruneRuns(ctx, sweepHistoryLimit); err != nil {
		logger.Warn("Pruning sweep history: %v", err)
	}
}
