package services

import (
	"fmt"
	"strings"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

const DefaultValidationThreshold = 0.7

// ValidatorService runs structural, technical, educational and
// role-relevance checks against a generated course. Findings are returned,
// never raised; the approval decision stays human.
type ValidatorService interface {
	ValidateCourseStructure(course types.AIGeneratedCourse) types.ValidationResult
}

type validatorService struct {
	log       *logger.Logger
	threshold float64
}

func NewValidatorService(baseLog *logger.Logger, threshold float64) ValidatorService {
	if threshold <= 0 {
		threshold = DefaultValidationThreshold
	}
	return &validatorService{
		log:       baseLog.With("service", "ValidatorService"),
		threshold: threshold,
	}
}

const (
	categoryStructural  = "structural"
	categoryTechnical   = "technical"
	categoryEducational = "educational"
	categoryRole        = "role-relevance"
)

var severityPenalty = map[types.ValidationSeverity]float64{
	types.SeverityCritical: 0.5,
	types.SeverityHigh:     0.3,
	types.SeverityMedium:   0.15,
	types.SeverityLow:      0.05,
}

var domainTerms = []string{"sentry", "error", "trace", "monitor", "performance", "observability"}

func (v *validatorService) ValidateCourseStructure(course types.AIGeneratedCourse) types.ValidationResult {
	var issues []types.ValidationIssue

	issues = append(issues, checkMetadata(course)...)
	issues = append(issues, checkModules(course)...)
	issues = append(issues, checkRoleCoverage(course)...)
	issues = append(issues, checkRichness(course.SynthesizedContent)...)
	issues = append(issues, checkTechnicalContent(course)...)

	metrics := types.ValidationMetrics{
		StructuralCompliance: subScore(issues, categoryStructural),
		TechnicalAccuracy:    subScore(issues, categoryTechnical),
		EducationalValue:     subScore(issues, categoryEducational),
		RoleRelevance:        subScore(issues, categoryRole),
	}
	overall := 0.30*metrics.StructuralCompliance +
		0.25*metrics.TechnicalAccuracy +
		0.25*metrics.EducationalValue +
		0.20*metrics.RoleRelevance

	// A critical issue always fails validation; high-severity issues are
	// blocking too, so a hollow course cannot pass on score alone.
	hasBlocking := false
	for _, issue := range issues {
		if issue.Severity == types.SeverityCritical || issue.Severity == types.SeverityHigh {
			hasBlocking = true
			break
		}
	}

	result := types.ValidationResult{
		IsValid:      overall >= v.threshold && !hasBlocking,
		OverallScore: overall,
		Metrics:      metrics,
		Issues:       issues,
		Suggestions:  suggestions(metrics, issues),
	}
	v.log.Debug("course validated", "course_id", course.ID, "score", overall, "issues", len(issues), "valid", result.IsValid)
	return result
}

func checkMetadata(course types.AIGeneratedCourse) []types.ValidationIssue {
	var out []types.ValidationIssue
	if strings.TrimSpace(course.Title) == "" {
		out = append(out, issue(categoryStructural, types.SeverityHigh, "course title is empty", "title"))
	}
	if strings.TrimSpace(course.Description) == "" {
		out = append(out, issue(categoryStructural, types.SeverityMedium, "course description is empty", "description"))
	}
	if strings.TrimSpace(course.Duration) == "" {
		out = append(out, issue(categoryStructural, types.SeverityLow, "course duration is missing", "duration"))
	}
	switch course.Level {
	case "beginner", "intermediate", "advanced":
	default:
		out = append(out, issue(categoryStructural, types.SeverityLow, fmt.Sprintf("unrecognized level %q", course.Level), "level"))
	}
	return out
}

// checkModules enforces the 3–8 module envelope: too few is a coverage
// failure, too many overwhelms the learner.
func checkModules(course types.AIGeneratedCourse) []types.ValidationIssue {
	var out []types.ValidationIssue
	n := len(course.GeneratedModules)
	if n < 3 {
		out = append(out, issue(categoryStructural, types.SeverityHigh,
			fmt.Sprintf("course has %d modules, minimum is 3", n), "generated_modules"))
	} else if n > 8 {
		out = append(out, issue(categoryStructural, types.SeverityMedium,
			fmt.Sprintf("course has %d modules, maximum is 8", n), "generated_modules"))
	}
	for i, m := range course.GeneratedModules {
		if strings.TrimSpace(m.Title) == "" {
			out = append(out, issue(categoryStructural, types.SeverityMedium,
				fmt.Sprintf("module %d has no title", i+1), "generated_modules"))
		}
		if m.Confidence < 0.5 {
			out = append(out, issue(categoryTechnical, types.SeverityLow,
				fmt.Sprintf("module %q has low generation confidence (%.2f)", m.Title, m.Confidence), "generated_modules"))
		}
	}
	return out
}

func checkRoleCoverage(course types.AIGeneratedCourse) []types.ValidationIssue {
	var out []types.ValidationIssue
	covered := map[string]bool{}
	for _, p := range course.RolePersonalizations {
		covered[p.RoleID] = true
	}
	for _, roleID := range course.GenerationRequest.TargetRoles {
		if !covered[roleID] {
			out = append(out, issue(categoryRole, types.SeverityHigh,
				fmt.Sprintf("target role %q has no personalization", roleID), "role_personalizations"))
		}
	}
	return out
}

func checkRichness(sc types.SynthesizedContent) []types.ValidationIssue {
	var out []types.ValidationIssue
	if len(sc.MainConcepts) < 2 {
		out = append(out, issue(categoryEducational, types.SeverityMedium, "fewer than 2 main concepts synthesized", "synthesized_content"))
	}
	if len(sc.KeyTakeaways) < 3 {
		out = append(out, issue(categoryEducational, types.SeverityLow, "fewer than 3 key takeaways synthesized", "synthesized_content"))
	}
	if len(sc.BestPractices) == 0 {
		out = append(out, issue(categoryEducational, types.SeverityLow, "no best practices synthesized", "synthesized_content"))
	}
	return out
}

func checkTechnicalContent(course types.AIGeneratedCourse) []types.ValidationIssue {
	var out []types.ValidationIssue

	var corpus strings.Builder
	corpus.WriteString(strings.ToLower(course.Title))
	corpus.WriteByte(' ')
	corpus.WriteString(strings.ToLower(course.Description))
	for _, m := range course.GeneratedModules {
		corpus.WriteByte(' ')
		corpus.WriteString(strings.ToLower(m.Title))
		corpus.WriteByte(' ')
		corpus.WriteString(strings.ToLower(m.Description))
	}
	text := corpus.String()

	onTopic := false
	for _, term := range domainTerms {
		if strings.Contains(text, term) {
			onTopic = true
			break
		}
	}
	if !onTopic {
		out = append(out, issue(categoryTechnical, types.SeverityCritical,
			"content does not mention any recognized domain terms", ""))
	}

	for _, m := range course.GeneratedModules {
		lower := strings.ToLower(m.CodeExample)
		if strings.Contains(lower, "todo") || strings.Contains(lower, "placeholder") {
			out = append(out, issue(categoryTechnical, types.SeverityMedium,
				fmt.Sprintf("module %q contains placeholder code", m.Title), "code_example"))
		}
	}
	return out
}

func issue(category string, severity types.ValidationSeverity, msg, field string) types.ValidationIssue {
	return types.ValidationIssue{Category: category, Severity: severity, Message: msg, Field: field}
}

func subScore(issues []types.ValidationIssue, category string) float64 {
	score := 1.0
	for _, i := range issues {
		if i.Category == category {
			score -= severityPenalty[i.Severity]
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// suggestions points at the weakest sub-metric first, then at specific
// issue groups.
func suggestions(m types.ValidationMetrics, issues []types.ValidationIssue) []string {
	var out []string

	weakest, score := "structural", m.StructuralCompliance
	if m.TechnicalAccuracy < score {
		weakest, score = "technical", m.TechnicalAccuracy
	}
	if m.EducationalValue < score {
		weakest, score = "educational", m.EducationalValue
	}
	if m.RoleRelevance < score {
		weakest = "role-relevance"
	}

	switch weakest {
	case "structural":
		out = append(out, "Review the course skeleton: fill in missing metadata and keep the module count between 3 and 8.")
	case "technical":
		out = append(out, "Replace placeholder code with runnable examples and regenerate low-confidence modules.")
	case "educational":
		out = append(out, "Broaden the synthesized concepts and takeaways so each module teaches something distinct.")
	case "role-relevance":
		out = append(out, "Generate personalizations for every target role before sending the course to review.")
	}

	for _, i := range issues {
		if i.Severity == types.SeverityCritical {
			out = append(out, "Regenerate the course content: it is not recognizably about the requested topic.")
			break
		}
	}
	return out
}
