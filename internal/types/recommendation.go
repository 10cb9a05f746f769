package types

// NextContentRecommendation points the learner at the next unfinished
// module in their path.
type NextContentRecommendation struct {
	ModuleID     string `json:"module_id"`
	StepID       string `json:"step_id"`
	Priority     int    `json:"priority"`
	Reasoning    string `json:"reasoning"`
	TimeEstimate string `json:"time_estimate"`
}

// PersonalizedContent is the role-specific framing for one module.
type PersonalizedContent struct {
	Explanation       string `json:"explanation"`
	WhyRelevant       string `json:"why_relevant"`
	NextStepNudge     string `json:"next_step_nudge"`
	DifficultyForRole string `json:"difficulty_for_role"`
}
