package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
)

// jobScheduler runs deferred background jobs keyed by id, at most one
// in-flight per id. Cancel before the timer fires is the only
// cancellation path; once a job starts it runs to completion.
type jobScheduler struct {
	mu     sync.Mutex
	log    *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

func newJobScheduler(baseLog *logger.Logger) *jobScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &jobScheduler{
		log:    baseLog.With("component", "JobScheduler"),
		ctx:    ctx,
		cancel: cancel,
		timers: map[string]*time.Timer{},
	}
}

// Schedule defers fn by delay under the given id. A second schedule for an
// id that is still pending is rejected.
func (s *jobScheduler) Schedule(id string, delay time.Duration, fn func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.timers[id]; exists {
		return fmt.Errorf("job %s already scheduled", id)
	}

	timer := time.AfterFunc(delay, func() {
		// Registration with the WaitGroup happens under the lock, before
		// the ctx check, so Shutdown cannot pass Wait between a timer
		// firing and its job becoming visible.
		s.mu.Lock()
		delete(s.timers, id)
		if s.ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		s.wg.Add(1)
		s.mu.Unlock()

		defer s.wg.Done()
		fn(s.ctx)
	})
	s.timers[id] = timer
	s.log.Debug("job scheduled", "id", id, "delay", delay)
	return nil
}

// Cancel stops a pending job. Returns false when no job is pending under
// the id (already fired or never scheduled).
func (s *jobScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[id]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.timers, id)
	s.log.Debug("job cancelled", "id", id)
	return true
}

// Pending reports whether a job is scheduled but not yet started.
func (s *jobScheduler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Shutdown cancels pending timers and waits for running jobs to finish.
// Cancellation happens under the same lock as job registration, so a
// timer that fires during Shutdown either registers first and is waited
// for, or observes the cancelled context and never runs.
func (s *jobScheduler) Shutdown() {
	s.mu.Lock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}
