package types

import "time"

// ResearchedContent is one scored item pulled from a research source.
// Immutable once produced.
type ResearchedContent struct {
	Source         string    `json:"source"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	RelevanceScore float64   `json:"relevance_score"`
	ExtractedAt    time.Time `json:"extracted_at"`
	KeyTopics      []string  `json:"key_topics"`
	CodeExamples   []string  `json:"code_examples,omitempty"`
	UseCases       []string  `json:"use_cases,omitempty"`
}

// SynthesizedContent is the distilled view of a research batch that the
// generation pipeline builds modules from.
type SynthesizedContent struct {
	MainConcepts    []string `json:"main_concepts"`
	KeyTakeaways    []string `json:"key_takeaways"`
	CodeExamples    []string `json:"code_examples"`
	UseCases        []string `json:"use_cases"`
	BestPractices   []string `json:"best_practices"`
	CommonPitfalls  []string `json:"common_pitfalls"`
	RelatedFeatures []string `json:"related_features"`
}
