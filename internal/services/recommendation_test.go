package services

import (
	"strings"
	"testing"

	"github.com/jaffrepaul/sentry-academy-backend/internal/catalog"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(logger.NewNop())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func TestNextContentNoRole(t *testing.T) {
	svc := NewRecommendationService(logger.NewNop(), testCatalog(t))

	if rec := svc.NextContent(types.NewUserProgress()); rec != nil {
		t.Fatalf("expected nil recommendation without a role, got %+v", rec)
	}
}

func TestNextContentFirstModule(t *testing.T) {
	cat := testCatalog(t)
	svc := NewRecommendationService(logger.NewNop(), cat)

	progress := types.NewUserProgress()
	progress.Role = "backend"

	rec := svc.NextContent(progress)
	if rec == nil {
		t.Fatal("expected a recommendation for a fresh backend user")
	}
	path, _ := cat.PathForRole("backend")
	first := path.Steps[0]
	if rec.StepID != first.ID {
		t.Fatalf("step = %q, want %q", rec.StepID, first.ID)
	}
	if rec.ModuleID != first.Modules[0] {
		t.Fatalf("module = %q, want %q", rec.ModuleID, first.Modules[0])
	}
	if rec.Priority != 10 {
		t.Fatalf("priority = %d, want 10", rec.Priority)
	}
}

func TestNextContentPriorityDecreasesByStep(t *testing.T) {
	cat := testCatalog(t)
	svc := NewRecommendationService(logger.NewNop(), cat)

	path, _ := cat.PathForRole("backend")
	progress := types.NewUserProgress()
	progress.Role = "backend"
	// Finish the first step entirely.
	progress.CompletedSteps = []string{path.Steps[0].ID}
	progress.CompletedModules = append([]string{}, path.Steps[0].Modules...)

	rec := svc.NextContent(progress)
	if rec == nil {
		t.Fatal("expected a recommendation for the second step")
	}
	if rec.StepID != path.Steps[1].ID {
		t.Fatalf("step = %q, want %q", rec.StepID, path.Steps[1].ID)
	}
	if rec.Priority != 9 {
		t.Fatalf("priority = %d, want 9", rec.Priority)
	}
}

func TestNextContentStepCompletionNudge(t *testing.T) {
	cat := testCatalog(t)
	svc := NewRecommendationService(logger.NewNop(), cat)

	path, _ := cat.PathForRole("backend")
	progress := types.NewUserProgress()
	progress.Role = "backend"
	// All modules of step 0 done but the step itself not marked complete.
	progress.CompletedModules = append([]string{}, path.Steps[0].Modules...)

	rec := svc.NextContent(progress)
	if rec == nil {
		t.Fatal("expected a nudge recommendation")
	}
	if rec.ModuleID != path.Steps[0].Modules[0] {
		t.Fatalf("module = %q, want first module of the step", rec.ModuleID)
	}
	if rec.Reasoning != stepCompletionNudge {
		t.Fatalf("reasoning = %q, want step completion nudge", rec.Reasoning)
	}
}

func TestNextContentPathComplete(t *testing.T) {
	cat := testCatalog(t)
	svc := NewRecommendationService(logger.NewNop(), cat)

	path, _ := cat.PathForRole("backend")
	progress := types.NewUserProgress()
	progress.Role = "backend"
	for _, step := range path.Steps {
		progress.CompletedSteps = append(progress.CompletedSteps, step.ID)
		progress.CompletedModules = append(progress.CompletedModules, step.Modules...)
	}

	if rec := svc.NextContent(progress); rec != nil {
		t.Fatalf("expected nil for a fully completed path, got %+v", rec)
	}
}

func TestCompleteModuleCascadesStep(t *testing.T) {
	cat := testCatalog(t)
	svc := NewRecommendationService(logger.NewNop(), cat)

	path, _ := cat.PathForRole("backend")
	step := path.Steps[0]

	progress := types.NewUserProgress()
	progress.Role = "backend"
	for _, m := range step.Modules[:len(step.Modules)-1] {
		progress = svc.CompleteModule(progress, m)
		if progress.HasCompletedStep(step.ID) {
			t.Fatalf("step %q completed before all modules done", step.ID)
		}
	}

	progress = svc.CompleteModule(progress, step.Modules[len(step.Modules)-1])
	if !progress.HasCompletedStep(step.ID) {
		t.Fatalf("step %q not completed after all modules done", step.ID)
	}
}

func TestCompleteModuleOrderIndependent(t *testing.T) {
	cat := testCatalog(t)
	svc := NewRecommendationService(logger.NewNop(), cat)

	path, _ := cat.PathForRole("backend")
	step := path.Steps[0]

	forward := types.NewUserProgress()
	forward.Role = "backend"
	for _, m := range step.Modules {
		forward = svc.CompleteModule(forward, m)
	}

	backward := types.NewUserProgress()
	backward.Role = "backend"
	for i := len(step.Modules) - 1; i >= 0; i-- {
		backward = svc.CompleteModule(backward, step.Modules[i])
	}

	if !forward.HasCompletedStep(step.ID) || !backward.HasCompletedStep(step.ID) {
		t.Fatal("step completion should not depend on module order")
	}
	if len(forward.CompletedModules) != len(backward.CompletedModules) {
		t.Fatalf("module counts differ: %d vs %d", len(forward.CompletedModules), len(backward.CompletedModules))
	}
}

func TestCompleteModuleIdempotent(t *testing.T) {
	cat := testCatalog(t)
	svc := NewRecommendationService(logger.NewNop(), cat)

	path, _ := cat.PathForRole("backend")
	module := path.Steps[0].Modules[0]

	progress := types.NewUserProgress()
	progress.Role = "backend"
	progress = svc.CompleteModule(progress, module)
	progress = svc.CompleteModule(progress, module)

	count := 0
	for _, m := range progress.CompletedModules {
		if m == module {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("module recorded %d times, want 1", count)
	}
}

func TestCompleteModuleWithoutRole(t *testing.T) {
	svc := NewRecommendationService(logger.NewNop(), testCatalog(t))

	progress := svc.CompleteModule(types.NewUserProgress(), "sentry-fundamentals")
	if !progress.HasCompletedModule("sentry-fundamentals") {
		t.Fatal("module completion should be recorded even without a role")
	}
	if len(progress.CompletedSteps) != 0 {
		t.Fatalf("no steps should cascade without a role, got %v", progress.CompletedSteps)
	}
}

func TestPersonalizedContentUnknownPair(t *testing.T) {
	svc := NewRecommendationService(logger.NewNop(), testCatalog(t))

	if c := svc.PersonalizedContent("no-such-module", "backend"); c != nil {
		t.Fatalf("expected nil for unknown module, got %+v", c)
	}
}

func TestPersonalizedContentDifficulty(t *testing.T) {
	svc := NewRecommendationService(logger.NewNop(), testCatalog(t))

	c := svc.PersonalizedContent("distributed-tracing", "backend")
	if c == nil {
		t.Fatal("expected personalization for backend distributed-tracing")
	}
	if c.DifficultyForRole != "advanced" {
		t.Fatalf("difficulty = %q, want advanced", c.DifficultyForRole)
	}
	if strings.TrimSpace(c.Explanation) == "" {
		t.Fatal("explanation should not be empty")
	}
}

func TestModuleEstimate(t *testing.T) {
	cases := []struct {
		estimate string
		count    int
		want     string
	}{
		{"2 hours", 2, "60 minutes"},
		{"3 hours", 2, "90 minutes"},
		{"1 hour", 3, "20 minutes"},
		{"1.5 hours", 2, "45 minutes"},
		{"a while", 2, fallbackModuleEstimate},
		{"2 hours", 0, fallbackModuleEstimate},
	}
	for _, tc := range cases {
		if got := moduleEstimate(tc.estimate, tc.count); got != tc.want {
			t.Fatalf("moduleEstimate(%q, %d) = %q, want %q", tc.estimate, tc.count, got, tc.want)
		}
	}
}
