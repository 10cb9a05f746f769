package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

var conceptTemplates = []string{
	"%s fundamentals",
	"Instrumenting %s",
	"%s in production",
	"Troubleshooting %s",
}

var featureKeywordMap = map[string]string{
	"error":       "error-tracking",
	"exception":   "error-tracking",
	"performance": "performance-monitoring",
	"trace":       "distributed-tracing",
	"tracing":     "distributed-tracing",
	"profil":      "profiling",
	"replay":      "session-replay",
	"release":     "release-health",
	"dashboard":   "dashboards-alerts",
	"alert":       "dashboards-alerts",
	"log":         "logging",
	"uptime":      "uptime-monitoring",
}

// synthesize distills the research batch into the structure the rest of
// the pipeline consumes. Derivation is deterministic from the keywords and
// the researched items.
func (s *generationService) synthesize(ctx context.Context, req types.ContentGenerationRequest, researched []types.ResearchedContent) types.SynthesizedContent {
	_, span := s.tracer.Start(ctx, "generation.synthesize")
	defer span.End()

	sc := types.SynthesizedContent{
		MainConcepts:    []string{},
		KeyTakeaways:    []string{},
		CodeExamples:    []string{},
		UseCases:        []string{},
		BestPractices:   []string{},
		CommonPitfalls:  []string{},
		RelatedFeatures: []string{},
	}

	for _, kw := range req.Keywords {
		for _, tmpl := range conceptTemplates {
			sc.MainConcepts = append(sc.MainConcepts, fmt.Sprintf(tmpl, kw))
			if len(sc.MainConcepts) >= 8 {
				break
			}
		}
		if len(sc.MainConcepts) >= 8 {
			break
		}
	}

	for i, item := range researched {
		if i >= 5 {
			break
		}
		sc.KeyTakeaways = append(sc.KeyTakeaways, fmt.Sprintf("From %s: %s", item.Source, item.Title))
	}
	for _, kw := range req.Keywords {
		sc.KeyTakeaways = append(sc.KeyTakeaways, fmt.Sprintf("Instrument %s before you need it, not after the incident", kw))
	}

	for _, item := range researched {
		sc.CodeExamples = appendBounded(sc.CodeExamples, item.CodeExamples, 6)
		sc.UseCases = appendBounded(sc.UseCases, item.UseCases, 6)
	}
	if req.IncludeCodeExamples && len(sc.CodeExamples) == 0 {
		sc.CodeExamples = append(sc.CodeExamples,
			fmt.Sprintf("Sentry.init({ dsn: \"...\" }); // enable %s", strings.Join(req.Keywords, ", ")))
	}
	if len(sc.UseCases) == 0 {
		sc.UseCases = append(sc.UseCases,
			fmt.Sprintf("Reducing time-to-resolution with %s", strings.Join(req.Keywords, " and ")))
	}

	primary := req.Keywords[0]
	sc.BestPractices = []string{
		fmt.Sprintf("Start %s instrumentation in one service and expand outward", primary),
		"Tag events with release and environment from day one",
		fmt.Sprintf("Review %s data weekly instead of waiting for incidents", primary),
		"Alert on rates and budgets, not individual events",
	}
	sc.CommonPitfalls = []string{
		fmt.Sprintf("Sampling %s too aggressively to see real patterns", primary),
		"Leaving source maps or debug symbols out of the release",
		"Treating the tool as an error inbox nobody triages",
	}

	seen := map[string]bool{}
	for _, kw := range req.Keywords {
		lower := strings.ToLower(kw)
		for fragment, feature := range featureKeywordMap {
			if strings.Contains(lower, fragment) && !seen[feature] {
				seen[feature] = true
				sc.RelatedFeatures = append(sc.RelatedFeatures, feature)
			}
		}
	}
	if len(sc.RelatedFeatures) == 0 {
		sc.RelatedFeatures = append(sc.RelatedFeatures, "error-tracking")
	}

	return sc
}

func appendBounded(dst []string, src []string, max int) []string {
	for _, s := range src {
		if len(dst) >= max {
			return dst
		}
		dup := false
		for _, existing := range dst {
			if existing == s {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}

// generateModules sizes the module list to the explicit template count
// when one was requested, clamp(|mainConcepts|, 3, 6) otherwise, and
// fills each module from the synthesized material.
func (s *generationService) generateModules(req types.ContentGenerationRequest, sc types.SynthesizedContent, pattern types.ContentPattern, researched []types.ResearchedContent) []types.AIGeneratedModule {
	count := s.moduleCount(req, pattern)

	titles := make([]string, 0, count)
	titles = append(titles, sc.MainConcepts...)
	fillers := []string{
		"Hands-on: applying what you learned",
		"Review, alerts and next steps",
		"Operating it in production",
	}
	for i := 0; len(titles) < count; i++ {
		titles = append(titles, fillers[i%len(fillers)])
	}
	titles = titles[:count]

	refs := make([]string, 0, 3)
	for i, item := range researched {
		if i >= 3 {
			break
		}
		refs = append(refs, item.URL)
	}

	confidence := moduleConfidence(len(researched))

	modules := make([]types.AIGeneratedModule, 0, count)
	for i, title := range titles {
		m := types.AIGeneratedModule{
			ID:          fmt.Sprintf("ai-module-%d-%s", i+1, slugify(title)),
			Title:       title,
			Description: fmt.Sprintf("Covers %s with worked examples drawn from current Sentry guidance.", strings.ToLower(title)),
			Duration:    "30 minutes",
			ContentConfig: types.ModuleContentConfig{
				HasHandsOn:           i%2 == 0,
				HasScenario:          req.IncludeScenarios,
				HasCodeExample:       req.IncludeCodeExamples && len(sc.CodeExamples) > 0,
				EstimatedReadingTime: 8 + 2*i,
			},
			SourceReferences: refs,
			Confidence:       confidence,
		}
		if len(sc.KeyTakeaways) > 0 {
			m.KeyTakeaways = []string{sc.KeyTakeaways[i%len(sc.KeyTakeaways)]}
			if len(sc.KeyTakeaways) > 1 {
				m.KeyTakeaways = append(m.KeyTakeaways, sc.KeyTakeaways[(i+1)%len(sc.KeyTakeaways)])
			}
		}
		if req.IncludeScenarios {
			m.Scenario = fmt.Sprintf("Your team ships a release and %s regresses. Use what this module covers to find the cause before users notice.", strings.Join(req.Keywords, " "))
		}
		if req.IncludeCodeExamples && len(sc.CodeExamples) > 0 {
			m.CodeExample = sc.CodeExamples[i%len(sc.CodeExamples)]
		}
		modules = append(modules, m)
	}
	return modules
}

var pathStepTitles = []string{"Foundations", "Applied practice", "Operating in production"}

// suggestLearningPath chunks the generated modules into ordered steps of
// two, preserving module order. Emitted only when the request asked for
// a learning path.
func suggestLearningPath(modules []types.AIGeneratedModule) []types.SuggestedPathStep {
	steps := make([]types.SuggestedPathStep, 0, (len(modules)+1)/2)
	for i := 0; i < len(modules); i += 2 {
		end := i + 2
		if end > len(modules) {
			end = len(modules)
		}
		ids := make([]string, 0, end-i)
		for _, m := range modules[i:end] {
			ids = append(ids, m.ID)
		}
		steps = append(steps, types.SuggestedPathStep{
			Title:         fmt.Sprintf("Step %d: %s", len(steps)+1, pathStepTitles[len(steps)%len(pathStepTitles)]),
			ModuleIDs:     ids,
			EstimatedTime: fmt.Sprintf("%d minutes", 30*len(ids)),
		})
	}
	return steps
}

// moduleConfidence grows with research coverage: 0.7 base plus 0.05 per
// backing source, capped at four sources.
func moduleConfidence(researchedCount int) float64 {
	n := researchedCount
	if n > 4 {
		n = 4
	}
	return 0.7 + 0.05*float64(n)
}

func (s *generationService) generatePersonalizations(req types.ContentGenerationRequest, sc types.SynthesizedContent, pattern types.ContentPattern) []types.AIGeneratedPersonalization {
	primary := req.Keywords[0]
	out := make([]types.AIGeneratedPersonalization, 0, len(req.TargetRoles))
	for _, roleID := range req.TargetRoles {
		roleTitle := roleID
		task := fmt.Sprintf("working with %s", primary)
		if role, ok := s.catalog.Role(roleID); ok {
			roleTitle = role.Title
			if len(role.CommonTasks) > 0 {
				task = strings.ToLower(role.CommonTasks[0])
			}
		}
		out = append(out, types.AIGeneratedPersonalization{
			RoleID:        roleID,
			Explanation:   fmt.Sprintf("As a %s, %s gives you direct visibility into the problems you own.", roleTitle, primary),
			WhyRelevant:   fmt.Sprintf("It maps directly onto %s.", task),
			NextStepNudge: fmt.Sprintf("Finish this course, then wire %s into your team's alerting.", primary),
			Difficulty:    pattern.Complexity,
			RoleSpecificExamples: []string{
				fmt.Sprintf("Using %s during a %s incident", primary, roleTitle),
			},
			RoleSpecificUseCases: []string{
				fmt.Sprintf("%s adoption for teams led by a %s", primary, roleTitle),
			},
		})
	}
	return out
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
