package types

import (
	"slices"
	"time"
)

// UserProgress is the single per-session progress record. Role is empty
// until the user picks one during onboarding.
type UserProgress struct {
	Role                 string    `json:"role"`
	CurrentStep          int       `json:"current_step"`
	CompletedSteps       []string  `json:"completed_steps"`
	CompletedModules     []string  `json:"completed_modules"`
	OnboardingCompleted  bool      `json:"onboarding_completed"`
	HasSeenOnboarding    bool      `json:"has_seen_onboarding"`
	LastActiveDate       time.Time `json:"last_active_date"`
	PreferredContentType string    `json:"preferred_content_type"`
}

func NewUserProgress() UserProgress {
	return UserProgress{
		CompletedSteps:       []string{},
		CompletedModules:     []string{},
		PreferredContentType: "mixed",
		LastActiveDate:       time.Now(),
	}
}

func (p UserProgress) HasCompletedStep(stepID string) bool {
	return slices.Contains(p.CompletedSteps, stepID)
}

func (p UserProgress) HasCompletedModule(moduleID string) bool {
	return slices.Contains(p.CompletedModules, moduleID)
}

// Clone returns a deep copy so callers can mutate without aliasing the
// original's slices.
func (p UserProgress) Clone() UserProgress {
	out := p
	out.CompletedSteps = slices.Clone(p.CompletedSteps)
	out.CompletedModules = slices.Clone(p.CompletedModules)
	return out
}
