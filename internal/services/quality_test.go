package services

import (
	"math"
	"testing"

	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

func TestQualityScoreRichCourse(t *testing.T) {
	sc := types.SynthesizedContent{
		MainConcepts:  []string{"a", "b", "c"},
		KeyTakeaways:  []string{"a", "b", "c", "d"},
		CodeExamples:  []string{"x", "y"},
		BestPractices: []string{"p", "q"},
	}
	modules := []types.AIGeneratedModule{
		{Confidence: 0.85},
		{Confidence: 0.85},
		{Confidence: 0.85},
	}
	personalizations := []types.AIGeneratedPersonalization{{RoleID: "backend"}}
	researched := []types.ResearchedContent{
		{Source: "sentry-docs", RelevanceScore: 0.9},
		{Source: "sentry-blog", RelevanceScore: 0.8},
	}

	// 0.3 richness (capped) + 0.25*0.85 + 0.2 coverage + 0.15*0.85 + 0.1*(2/4)
	got := computeQualityScore(sc, modules, personalizations, researched)
	if math.Abs(got-0.89) > 1e-9 {
		t.Fatalf("score = %v, want 0.89", got)
	}
}

func TestQualityScoreEmptyInputs(t *testing.T) {
	got := computeQualityScore(types.SynthesizedContent{}, nil, nil, nil)
	if got != 0 {
		t.Fatalf("score = %v, want 0 for empty inputs", got)
	}
}

func TestQualityScoreRichnessCap(t *testing.T) {
	sc := types.SynthesizedContent{
		MainConcepts: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		KeyTakeaways: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
	}
	got := computeQualityScore(sc, nil, nil, nil)
	if math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("score = %v, want richness capped at 0.3", got)
	}
}

func TestQualityScoreSourceDiversityCap(t *testing.T) {
	researched := []types.ResearchedContent{
		{Source: "s1"}, {Source: "s2"}, {Source: "s3"},
		{Source: "s4"}, {Source: "s5"}, {Source: "s6"},
	}
	if d := sourceDiversity(researched); d != 1 {
		t.Fatalf("diversity = %v, want 1 for more than four unique sources", d)
	}
}
