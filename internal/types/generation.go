package types

import "time"

type GenerationStatus string

const (
	GenerationStatusPending      GenerationStatus = "pending"
	GenerationStatusResearching  GenerationStatus = "researching"
	GenerationStatusGenerating   GenerationStatus = "generating"
	GenerationStatusReviewNeeded GenerationStatus = "review-needed"
	GenerationStatusApproved     GenerationStatus = "approved"
	GenerationStatusRejected     GenerationStatus = "rejected"
	GenerationStatusPublished    GenerationStatus = "published"
	GenerationStatusError        GenerationStatus = "error"
)

// Terminal reports whether no further pipeline-driven transition can occur.
func (s GenerationStatus) Terminal() bool {
	switch s {
	case GenerationStatusPublished, GenerationStatusError:
		return true
	}
	return false
}

// ResearchSourceConfig selects one research source for a request.
// Priority is 1–5 and is carried for progress pacing, not ranking.
type ResearchSourceConfig struct {
	Source   string `json:"source" yaml:"source"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Priority int    `json:"priority" yaml:"priority"`
}

// ContentGenerationRequest is immutable once created. Template is
// optional; without one the template matcher decides the course shape.
type ContentGenerationRequest struct {
	ID                   string                 `json:"id"`
	Keywords             []string               `json:"keywords"`
	SelectedSources      []ResearchSourceConfig `json:"selected_sources"`
	TargetRoles          []string               `json:"target_roles"`
	Template             *ContentTemplate       `json:"template,omitempty"`
	IncludeCodeExamples  bool                   `json:"include_code_examples"`
	IncludeScenarios     bool                   `json:"include_scenarios"`
	GenerateLearningPath bool                   `json:"generate_learning_path"`
	CreatedAt            time.Time              `json:"created_at"`
	CreatedBy            string                 `json:"created_by"`
}

// GenerationProgress tracks one request through the pipeline. Logs are
// append-only.
type GenerationProgress struct {
	RequestID   string           `json:"request_id"`
	Status      GenerationStatus `json:"status"`
	CurrentStep string           `json:"current_step"`
	Progress    int              `json:"progress"`
	Logs        []string         `json:"logs"`
	Error       string           `json:"error,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// GenerationProgressUpdate is a merge-update: nil fields are left alone,
// Logs are appended to the existing list, never substituted for it.
type GenerationProgressUpdate struct {
	Status      *GenerationStatus
	CurrentStep *string
	Progress    *int
	Logs        []string
	Error       *string
}

// GenerationSettings is the single mutable settings record of the store.
type GenerationSettings struct {
	AutoApproveThreshold float64 `json:"auto_approve_threshold"`
	RequireHumanReview   bool    `json:"require_human_review"`
	MaxModulesPerCourse  int     `json:"max_modules_per_course"`
	DefaultDuration      string  `json:"default_duration"`
}

func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		AutoApproveThreshold: 0.9,
		RequireHumanReview:   true,
		MaxModulesPerCourse:  6,
		DefaultDuration:      "2 hours",
	}
}

type GenerationStats struct {
	TotalRequests       int            `json:"total_requests"`
	TotalCourses        int            `json:"total_courses"`
	ApprovedCourses     int            `json:"approved_courses"`
	PendingApproval     int            `json:"pending_approval"`
	StatusCounts        map[string]int `json:"status_counts"`
	RoleDistribution    map[string]int `json:"role_distribution"`
	AverageQualityScore float64        `json:"average_quality_score"`
}
