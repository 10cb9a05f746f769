package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// simulateFetch stands in for the nine external content sources. Output is
// deterministic for a given (source, keywords) pair so the pipeline and
// its tests behave reproducibly.
func (s *researchService) simulateFetch(ctx context.Context, src ResearchSource, keywords []string) ([]fetchedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords supplied")
	}

	topic := strings.Join(keywords, " ")
	slug := strings.ToLower(strings.ReplaceAll(topic, " ", "-"))

	items := make([]fetchedItem, 0, 3)
	for i, shape := range shapesForKind(src.Kind) {
		title := fmt.Sprintf(shape.title, titleCase(topic))
		body := buildBody(topic, keywords, shape, 3-i)
		item := fetchedItem{
			Title:     title,
			URL:       fmt.Sprintf("%s/%s-%d", src.BaseURL, slug, i+1),
			Content:   body,
			KeyTopics: append([]string{}, keywords...),
		}
		if shape.withCode {
			item.CodeExamples = []string{
				fmt.Sprintf("Sentry.init({ dsn: \"...\", tracesSampleRate: 1.0 }); // %s setup", topic),
			}
		}
		if shape.withUseCases {
			item.UseCases = []string{
				fmt.Sprintf("Teams adopting %s to cut time-to-resolution", topic),
				fmt.Sprintf("Rolling out %s across a large monorepo", topic),
			}
		}
		items = append(items, item)
	}
	return items, nil
}

type itemShape struct {
	title        string
	angle        string
	withCode     bool
	withUseCases bool
}

func shapesForKind(kind string) []itemShape {
	switch kind {
	case "documentation":
		return []itemShape{
			{title: "%s | Sentry Documentation", angle: "This guide covers configuration, instrumentation and common pitfalls", withCode: true},
			{title: "Getting Started with %s", angle: "Step-by-step setup from SDK install to your first event", withCode: true},
			{title: "%s Troubleshooting", angle: "Symptoms, causes and fixes for the issues teams report most", withCode: true},
		}
	case "product":
		return []itemShape{
			{title: "%s | Sentry Product", angle: "Feature overview, plans and how it fits the rest of the platform", withUseCases: true},
			{title: "How %s Works", angle: "Architecture notes on ingestion, processing and retention"},
		}
	case "blog":
		return []itemShape{
			{title: "Deep Dive: %s", angle: "An engineering walkthrough with benchmarks and war stories", withCode: true},
			{title: "What We Learned Shipping %s", angle: "Lessons from rolling the feature out to production users"},
		}
	case "community":
		return []itemShape{
			{title: "How do I set up %s correctly?", angle: "Accepted answer with configuration samples and caveats", withCode: true},
			{title: "%s not reporting events", angle: "Highest-voted debugging checklist from the community", withCode: true},
		}
	case "support":
		return []itemShape{
			{title: "%s FAQ", angle: "Answers to the questions support sees every week"},
			{title: "Resolving common %s problems", angle: "Known issues with workarounds and affected versions"},
		}
	case "video":
		return []itemShape{
			{title: "%s in 10 Minutes", angle: "Recorded walkthrough from install to first insight"},
		}
	case "stories":
		return []itemShape{
			{title: "How Acme Ships Faster with %s", angle: "Customer results including adoption numbers and outcomes", withUseCases: true},
		}
	case "comparison":
		return []itemShape{
			{title: "%s: Sentry vs Alternatives", angle: "Capability comparison across competing tools"},
		}
	default: // marketing and anything unregistered
		return []itemShape{
			{title: "Why Teams Choose Sentry for %s", angle: "Positioning overview with customer quotes", withUseCases: true},
		}
	}
}

// buildBody repeats the keywords a controlled number of times so the
// term-frequency scorer produces graded, stable relevance per item.
func buildBody(topic string, keywords []string, shape itemShape, emphasis int) string {
	if emphasis < 1 {
		emphasis = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s. %s with Sentry gives you visibility you cannot get from logs alone. ", shape.angle, titleCase(topic))
	for i := 0; i < emphasis; i++ {
		for _, kw := range keywords {
			fmt.Fprintf(&b, "Understanding %s in production starts with instrumenting %s end to end. ", kw, kw)
		}
	}
	b.WriteString("Connect it to releases, alerts and dashboards to close the loop.")
	return b.String()
}

// Casers are stateful, so each call builds its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
