package types

type ValidationSeverity string

const (
	SeverityLow      ValidationSeverity = "low"
	SeverityMedium   ValidationSeverity = "medium"
	SeverityHigh     ValidationSeverity = "high"
	SeverityCritical ValidationSeverity = "critical"
)

type ValidationIssue struct {
	Category string             `json:"category"`
	Severity ValidationSeverity `json:"severity"`
	Message  string             `json:"message"`
	Field    string             `json:"field,omitempty"`
}

type ValidationMetrics struct {
	StructuralCompliance float64 `json:"structural_compliance"`
	TechnicalAccuracy    float64 `json:"technical_accuracy"`
	EducationalValue     float64 `json:"educational_value"`
	RoleRelevance        float64 `json:"role_relevance"`
}

// ValidationResult is always returned, never thrown; the approval decision
// stays with a human reviewer.
type ValidationResult struct {
	IsValid      bool              `json:"is_valid"`
	OverallScore float64           `json:"overall_score"`
	Metrics      ValidationMetrics `json:"metrics"`
	Issues       []ValidationIssue `json:"issues"`
	Suggestions  []string          `json:"suggestions"`
}

// ContentPattern is the shape the template matcher extracts from
// synthesized content when no explicit template is supplied.
type ContentPattern struct {
	Concepts        []string `json:"concepts"`
	ActionVerbs     []string `json:"action_verbs"`
	TechnologyTerms []string `json:"technology_terms"`
	BusinessTerms   []string `json:"business_terms"`
	Complexity      string   `json:"complexity"` // beginner|intermediate|advanced
}

// ContentTemplate is an explicit target shape for a generated course.
// Zero-valued fields fall back to the template matcher; a TitlePattern
// containing %s is filled with the primary concept.
type ContentTemplate struct {
	ID                  string `json:"id"`
	TitlePattern        string `json:"title_pattern"`
	ModuleCount         int    `json:"module_count"`
	Duration            string `json:"duration"`
	Level               string `json:"level"`
	Category            string `json:"category"`
	MaxDescriptionChars int    `json:"max_description_chars"`
}
