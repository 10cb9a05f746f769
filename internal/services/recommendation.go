package services

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jaffrepaul/sentry-academy-backend/internal/catalog"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

const (
	genericReasoning       = "The next step in your learning path."
	stepCompletionNudge    = "Complete this step to unlock the next phase of your learning path."
	fallbackModuleEstimate = "30 minutes"
)

// RecommendationService computes what the learner should do next. All
// methods are pure over the catalog and the given progress value.
type RecommendationService interface {
	NextContent(progress types.UserProgress) *types.NextContentRecommendation
	PersonalizedContent(moduleID, roleID string) *types.PersonalizedContent
	CompleteModule(progress types.UserProgress, moduleID string) types.UserProgress
}

type recommendationService struct {
	log     *logger.Logger
	catalog *catalog.Catalog
}

func NewRecommendationService(baseLog *logger.Logger, cat *catalog.Catalog) RecommendationService {
	return &recommendationService{
		log:     baseLog.With("service", "RecommendationService"),
		catalog: cat,
	}
}

// NextContent returns the first unfinished module of the first unfinished
// step, or nil when the user has no role, no path exists, or the path is
// fully complete. A nil result with no role signals the caller to show
// onboarding.
func (s *recommendationService) NextContent(progress types.UserProgress) *types.NextContentRecommendation {
	if progress.Role == "" {
		return nil
	}
	path, ok := s.catalog.PathForRole(progress.Role)
	if !ok {
		return nil
	}

	for idx, step := range path.Steps {
		if progress.HasCompletedStep(step.ID) {
			continue
		}

		priority := 10 - idx
		if priority < 1 {
			priority = 1
		}

		for _, moduleID := range step.Modules {
			if progress.HasCompletedModule(moduleID) {
				continue
			}
			return &types.NextContentRecommendation{
				ModuleID:     moduleID,
				StepID:       step.ID,
				Priority:     priority,
				Reasoning:    s.reasoningFor(progress.Role, moduleID),
				TimeEstimate: moduleEstimate(step.EstimatedTime, len(step.Modules)),
			}
		}

		// Every module is done but the step has not been marked complete
		// yet. Point at the step's first module to force the completion
		// path.
		if len(step.Modules) > 0 {
			return &types.NextContentRecommendation{
				ModuleID:     step.Modules[0],
				StepID:       step.ID,
				Priority:     priority,
				Reasoning:    stepCompletionNudge,
				TimeEstimate: moduleEstimate(step.EstimatedTime, len(step.Modules)),
			}
		}
	}
	return nil
}

func (s *recommendationService) reasoningFor(roleID, moduleID string) string {
	if r, ok := s.catalog.Reasoning(roleID, moduleID); ok {
		return r
	}
	return genericReasoning
}

// PersonalizedContent resolves the static (role, module) record; nil when
// no entry exists for the pair.
func (s *recommendationService) PersonalizedContent(moduleID, roleID string) *types.PersonalizedContent {
	p, ok := s.catalog.Personalization(roleID, moduleID)
	if !ok {
		return nil
	}
	return &types.PersonalizedContent{
		Explanation:       p.Explanation,
		WhyRelevant:       p.WhyRelevant,
		NextStepNudge:     p.NextStepNudge,
		DifficultyForRole: s.catalog.DifficultyForModule(moduleID),
	}
}

// CompleteModule records a module completion and cascades step completion
// across the whole path. Idempotent; returns a new progress value.
func (s *recommendationService) CompleteModule(progress types.UserProgress, moduleID string) types.UserProgress {
	out := progress.Clone()
	if !out.HasCompletedModule(moduleID) {
		out.CompletedModules = append(out.CompletedModules, moduleID)
	}
	out.LastActiveDate = time.Now()

	path, ok := s.catalog.PathForRole(out.Role)
	if !ok {
		// No role (or unknown role): the module is still recorded, the
		// step cascade is skipped.
		return out
	}

	// Full re-scan rather than an incremental check, so any prior
	// inconsistency self-heals here.
	for _, step := range path.Steps {
		if out.HasCompletedStep(step.ID) {
			continue
		}
		allDone := len(step.Modules) > 0
		for _, m := range step.Modules {
			if !out.HasCompletedModule(m) {
				allDone = false
				break
			}
		}
		if allDone {
			out.CompletedSteps = append(out.CompletedSteps, step.ID)
		}
	}
	return out
}

var hoursRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*hour`)

// moduleEstimate splits a step estimate like "2 hours" evenly across its
// modules. Unparseable estimates fall back to 30 minutes.
func moduleEstimate(stepEstimate string, moduleCount int) string {
	if moduleCount <= 0 {
		return fallbackModuleEstimate
	}
	m := hoursRe.FindStringSubmatch(stepEstimate)
	if m == nil {
		return fallbackModuleEstimate
	}
	hours, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return fallbackModuleEstimate
	}
	minutes := int(hours*60) / moduleCount
	if minutes <= 0 {
		return fallbackModuleEstimate
	}
	return fmt.Sprintf("%d minutes", minutes)
}
