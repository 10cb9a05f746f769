package types

// Role is a static catalog entry describing an engineer persona.
type Role struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
	CommonTasks []string `json:"common_tasks" yaml:"common_tasks"`
}

type LearningPathStep struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	SentryFeature string   `json:"sentry_feature" yaml:"sentry_feature"`
	Modules       []string `json:"modules" yaml:"modules"`
	Outcomes      []string `json:"outcomes" yaml:"outcomes"`
	EstimatedTime string   `json:"estimated_time" yaml:"estimated_time"`
	Priority      int      `json:"priority" yaml:"priority"`
	IsCompleted   bool     `json:"is_completed" yaml:"-"`
	IsUnlocked    bool     `json:"is_unlocked" yaml:"-"`
}

// LearningPath is the ordered step sequence for one role. Steps are kept
// sorted by Priority ascending; step 0 is always unlocked.
type LearningPath struct {
	ID                 string             `json:"id" yaml:"id"`
	RoleID             string             `json:"role_id" yaml:"role_id"`
	Title              string             `json:"title" yaml:"title"`
	Description        string             `json:"description" yaml:"description"`
	TotalEstimatedTime string             `json:"total_estimated_time" yaml:"total_estimated_time"`
	Steps              []LearningPathStep `json:"steps" yaml:"steps"`
}

// RolePersonalization is the static per-role explanation for one module.
type RolePersonalization struct {
	ModuleID      string `json:"module_id" yaml:"module_id"`
	Explanation   string `json:"explanation" yaml:"explanation"`
	WhyRelevant   string `json:"why_relevant" yaml:"why_relevant"`
	NextStepNudge string `json:"next_step_nudge" yaml:"next_step_nudge"`
}
