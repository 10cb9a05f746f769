package services

import (
	"github.com/montanaflynn/stats"

	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

// computeQualityScore is the bounded [0,1] heuristic combining structural
// completeness, per-module confidence and research provenance. Component
// caps sum to 1.0:
//
//	0.30 content richness (capped)
//	0.25 mean module confidence
//	0.20 role coverage flag
//	0.15 mean research relevance
//	0.10 source diversity
func computeQualityScore(
	sc types.SynthesizedContent,
	modules []types.AIGeneratedModule,
	personalizations []types.AIGeneratedPersonalization,
	researched []types.ResearchedContent,
) float64 {
	richness := 0.1*float64(len(sc.MainConcepts)) +
		0.1*float64(len(sc.KeyTakeaways)) +
		0.05*float64(len(sc.CodeExamples)) +
		0.05*float64(len(sc.BestPractices))
	if richness > 0.3 {
		richness = 0.3
	}

	score := richness
	score += 0.25 * meanOf(confidences(modules))
	if len(personalizations) > 0 {
		score += 0.2
	}
	score += 0.15 * meanOf(relevances(researched))
	score += 0.10 * sourceDiversity(researched)

	if score > 1 {
		score = 1
	}
	return score
}

func confidences(modules []types.AIGeneratedModule) []float64 {
	out := make([]float64, 0, len(modules))
	for _, m := range modules {
		out = append(out, m.Confidence)
	}
	return out
}

func relevances(researched []types.ResearchedContent) []float64 {
	out := make([]float64, 0, len(researched))
	for _, r := range researched {
		out = append(out, r.RelevanceScore)
	}
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

func sourceDiversity(researched []types.ResearchedContent) float64 {
	unique := map[string]bool{}
	for _, r := range researched {
		unique[r.Source] = true
	}
	d := float64(len(unique)) / 4
	if d > 1 {
		return 1
	}
	return d
}
