package services

import (
	"fmt"
	"strings"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

// TemplateMatcher maps synthesized content onto a course shape when no
// explicit template is supplied.
type TemplateMatcher interface {
	Pattern(sc types.SynthesizedContent) types.ContentPattern
	CourseTitle(pattern types.ContentPattern, targetRole string) string
	CourseDescription(pattern types.ContentPattern, maxChars int) string
	ModuleCount(pattern types.ContentPattern) int
}

type templateMatcher struct {
	log *logger.Logger
}

func NewTemplateMatcher(baseLog *logger.Logger) TemplateMatcher {
	return &templateMatcher{log: baseLog.With("service", "TemplateMatcher")}
}

var (
	actionVerbs = []string{
		"instrument", "configure", "debug", "trace", "profile", "monitor",
		"alert", "deploy", "measure", "triage", "optimize", "capture",
	}
	technologyTerms = []string{
		"sdk", "javascript", "python", "go", "react", "node", "api",
		"database", "queue", "browser", "mobile", "kubernetes", "docker",
	}
	businessTerms = []string{
		"adoption", "impact", "resolution", "stability", "retention",
		"velocity", "cost", "stakeholder", "revenue",
	}

	beginnerSignals     = []string{"basics", "introduction", "getting started", "fundamentals", "first", "setup"}
	intermediateSignals = []string{"configure", "integrate", "optimize", "dashboard", "alert", "release"}
	advancedSignals     = []string{"distributed", "profiling", "advanced", "architecture", "scale", "internals"}
)

// Pattern extracts concepts, verb/term hits and a complexity tier chosen
// by majority vote among the tier keyword counts.
func (m *templateMatcher) Pattern(sc types.SynthesizedContent) types.ContentPattern {
	corpus := strings.ToLower(strings.Join(flatten(
		sc.MainConcepts, sc.KeyTakeaways, sc.BestPractices, sc.UseCases,
	), " "))

	p := types.ContentPattern{
		Concepts:        append([]string{}, sc.MainConcepts...),
		ActionVerbs:     hits(corpus, actionVerbs),
		TechnologyTerms: hits(corpus, technologyTerms),
		BusinessTerms:   hits(corpus, businessTerms),
	}

	beginner := countHits(corpus, beginnerSignals)
	intermediate := countHits(corpus, intermediateSignals)
	advanced := countHits(corpus, advancedSignals)

	switch {
	case advanced > beginner && advanced > intermediate:
		p.Complexity = "advanced"
	case intermediate > beginner && intermediate >= advanced:
		p.Complexity = "intermediate"
	default:
		p.Complexity = "beginner"
	}
	return p
}

func (m *templateMatcher) CourseTitle(pattern types.ContentPattern, targetRole string) string {
	subject := "Sentry"
	if len(pattern.Concepts) > 0 {
		subject = pattern.Concepts[0]
	}

	var title string
	switch pattern.Complexity {
	case "advanced":
		title = fmt.Sprintf("Mastering %s", subject)
	case "intermediate":
		title = fmt.Sprintf("%s in Practice", subject)
	default:
		title = fmt.Sprintf("Getting Started with %s", subject)
	}
	if targetRole != "" {
		title = fmt.Sprintf("%s for %s", title, targetRole)
	}
	return title
}

func (m *templateMatcher) CourseDescription(pattern types.ContentPattern, maxChars int) string {
	concepts := pattern.Concepts
	if len(concepts) > 3 {
		concepts = concepts[:3]
	}
	desc := fmt.Sprintf(
		"A %s-level course covering %s, built from current Sentry documentation and field guidance.",
		pattern.Complexity, strings.Join(concepts, ", "),
	)
	if maxChars > 1 {
		// Truncate on rune boundaries; concepts can carry non-ASCII text.
		if runes := []rune(desc); len(runes) > maxChars {
			desc = strings.TrimSpace(string(runes[:maxChars-1])) + "…"
		}
	}
	return desc
}

// ModuleCount clamps the concept count to between 3 and 6 modules: the
// lower bound keeps minimum coverage, the upper bound keeps the course
// digestible.
func (m *templateMatcher) ModuleCount(pattern types.ContentPattern) int {
	n := len(pattern.Concepts)
	if n < 3 {
		return 3
	}
	if n > 6 {
		return 6
	}
	return n
}

func flatten(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func hits(corpus string, terms []string) []string {
	var out []string
	for _, t := range terms {
		if strings.Contains(corpus, t) {
			out = append(out, t)
		}
	}
	return out
}

func countHits(corpus string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(corpus, t)
	}
	return n
}
