package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
)

func newTestProgress(t *testing.T) ProgressService {
	t.Helper()
	log := logger.NewNop()
	cat := testCatalog(t)
	repo := repos.NewProgressRepo(repos.NewMemoryKV(), log)
	recSvc := NewRecommendationService(log, cat)
	return NewProgressService(log, cat, repo, recSvc)
}

func TestSetRoleValidatesAndResets(t *testing.T) {
	svc := newTestProgress(t)
	ctx := context.Background()

	if _, err := svc.SetRole(ctx, "warlock"); !errors.Is(err, repos.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}

	if _, err := svc.SetRole(ctx, "backend"); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if _, err := svc.CompleteModule(ctx, "sentry-fundamentals"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Switching roles wipes completion state.
	p, err := svc.SetRole(ctx, "frontend")
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if p.Role != "frontend" {
		t.Fatalf("role = %q", p.Role)
	}
	if len(p.CompletedModules) != 0 || len(p.CompletedSteps) != 0 {
		t.Fatalf("completion state should be reset: %+v", p)
	}
	if !p.OnboardingCompleted || !p.HasSeenOnboarding {
		t.Fatal("role selection should complete onboarding")
	}
}

func TestCompleteModulePersists(t *testing.T) {
	svc := newTestProgress(t)
	ctx := context.Background()

	if _, err := svc.SetRole(ctx, "backend"); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if _, err := svc.CompleteModule(ctx, "sentry-fundamentals"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	p, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !p.HasCompletedModule("sentry-fundamentals") {
		t.Fatal("completion should survive a reload")
	}
}

func TestMarkOnboardingSeen(t *testing.T) {
	svc := newTestProgress(t)
	ctx := context.Background()

	p, err := svc.MarkOnboardingSeen(ctx)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !p.HasSeenOnboarding {
		t.Fatal("flag not set")
	}
	if p.OnboardingCompleted {
		t.Fatal("seeing onboarding is not completing it")
	}
}

func TestResetClearsEverything(t *testing.T) {
	svc := newTestProgress(t)
	ctx := context.Background()

	if _, err := svc.SetRole(ctx, "backend"); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if _, err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	p, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Role != "" || p.OnboardingCompleted {
		t.Fatalf("reset should restore defaults: %+v", p)
	}
}
