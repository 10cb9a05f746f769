package types

import "time"

// Course is the base catalog shape shared by curated and AI-generated
// courses.
type Course struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Level       string  `json:"level"`
	Rating      float64 `json:"rating"`
	Students    int     `json:"students"`
	Category    string  `json:"category"`
	IsPopular   bool    `json:"is_popular"`
}

type ModuleContentConfig struct {
	HasHandsOn           bool `json:"has_hands_on"`
	HasScenario          bool `json:"has_scenario"`
	HasCodeExample       bool `json:"has_code_example"`
	EstimatedReadingTime int  `json:"estimated_reading_time"`
}

type AIGeneratedModule struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Duration         string              `json:"duration"`
	IsCompleted      bool                `json:"is_completed"`
	KeyTakeaways     []string            `json:"key_takeaways"`
	Scenario         string              `json:"scenario,omitempty"`
	CodeExample      string              `json:"code_example,omitempty"`
	ContentConfig    ModuleContentConfig `json:"content_config"`
	SourceReferences []string            `json:"source_references"`
	Confidence       float64             `json:"confidence"`
}

type AIGeneratedPersonalization struct {
	RoleID               string   `json:"role_id"`
	Explanation          string   `json:"explanation"`
	WhyRelevant          string   `json:"why_relevant"`
	NextStepNudge        string   `json:"next_step_nudge"`
	Difficulty           string   `json:"difficulty"` // beginner|intermediate|advanced
	RoleSpecificExamples []string `json:"role_specific_examples"`
	RoleSpecificUseCases []string `json:"role_specific_use_cases"`
}

// SuggestedPathStep is one ordered step of the learning path emitted
// when a generation request asked for one. ModuleIDs keep module order.
type SuggestedPathStep struct {
	Title         string   `json:"title"`
	ModuleIDs     []string `json:"module_ids"`
	EstimatedTime string   `json:"estimated_time"`
}

// AIGeneratedCourse is created once by the generation pipeline and then
// mutated in place by review/bulk operations. Every mutation bumps Version
// and LastModified.
type AIGeneratedCourse struct {
	Course

	IsAIGenerated         bool                         `json:"is_ai_generated"`
	GenerationRequest     ContentGenerationRequest     `json:"generation_request"`
	ResearchSources       []ResearchedContent          `json:"research_sources"`
	SynthesizedContent    SynthesizedContent           `json:"synthesized_content"`
	GeneratedModules      []AIGeneratedModule          `json:"generated_modules"`
	RolePersonalizations  []AIGeneratedPersonalization `json:"role_personalizations"`
	SuggestedLearningPath []SuggestedPathStep          `json:"suggested_learning_path,omitempty"`
	QualityScore          float64                      `json:"quality_score"`
	ReviewNotes           string                       `json:"review_notes,omitempty"`
	ApprovedBy            string                       `json:"approved_by,omitempty"`
	ApprovedAt            *time.Time                   `json:"approved_at,omitempty"`
	GeneratedAt           time.Time                    `json:"generated_at"`
	LastModified          time.Time                    `json:"last_modified"`
	Version               int                          `json:"version"`
}

// Approved reports whether the course has been signed off by a reviewer.
func (c AIGeneratedCourse) Approved() bool {
	return c.ApprovedAt != nil && c.ApprovedBy != ""
}

// CourseUpdate is a merge-update for AIGeneratedCourse; nil fields are
// left untouched.
type CourseUpdate struct {
	Title        *string
	Description  *string
	Duration     *string
	Level        *string
	Category     *string
	IsPopular    *bool
	QualityScore *float64
	ReviewNotes  *string
	ApprovedBy   *string
	ApprovedAt   *time.Time
}
