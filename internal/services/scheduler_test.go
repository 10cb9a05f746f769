package services

import (
	"context"
	"testing"
	"time"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
)

func TestSchedulerRunsJob(t *testing.T) {
	s := newJobScheduler(logger.NewNop())
	defer s.Shutdown()

	done := make(chan struct{})
	if err := s.Schedule("job-1", time.Millisecond, func(ctx context.Context) {
		close(done)
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestSchedulerRejectsDuplicateID(t *testing.T) {
	s := newJobScheduler(logger.NewNop())
	defer s.Shutdown()

	if err := s.Schedule("job-1", time.Hour, func(ctx context.Context) {}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := s.Schedule("job-1", time.Hour, func(ctx context.Context) {}); err == nil {
		t.Fatal("second schedule under the same id should fail")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := newJobScheduler(logger.NewNop())
	defer s.Shutdown()

	ran := make(chan struct{})
	if err := s.Schedule("job-1", 50*time.Millisecond, func(ctx context.Context) {
		close(ran)
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if !s.Cancel("job-1") {
		t.Fatal("cancel of a pending job should succeed")
	}
	if s.Pending("job-1") {
		t.Fatal("job should no longer be pending after cancel")
	}
	if s.Cancel("job-1") {
		t.Fatal("second cancel should report no pending job")
	}

	select {
	case <-ran:
		t.Fatal("cancelled job must not run")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestSchedulerShutdownWaitsForRunningJob(t *testing.T) {
	s := newJobScheduler(logger.NewNop())

	started := make(chan struct{})
	release := make(chan struct{})
	if err := s.Schedule("job-1", 0, func(ctx context.Context) {
		close(started)
		<-release
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("shutdown returned while a job was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not return after the job finished")
	}
}

func TestSchedulerShutdownStopsPendingJobs(t *testing.T) {
	s := newJobScheduler(logger.NewNop())

	ran := make(chan struct{})
	if err := s.Schedule("job-1", 30*time.Millisecond, func(ctx context.Context) {
		close(ran)
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.Shutdown()

	select {
	case <-ran:
		t.Fatal("job fired after shutdown")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerCancelUnknownID(t *testing.T) {
	s := newJobScheduler(logger.NewNop())
	defer s.Shutdown()

	if s.Cancel("never-scheduled") {
		t.Fatal("cancel of an unknown id should return false")
	}
}
