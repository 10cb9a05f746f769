package services

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

//go:embed data/sources.yaml
var sourcesFS embed.FS

const (
	researchCacheTTL    = 24 * time.Hour
	crossSourceFloor    = 0.2
	maxRankedResults    = 20
	rateLimitWindowSize = time.Minute
)

// ResearchSource is one registry entry from sources.yaml.
type ResearchSource struct {
	ID                 string  `yaml:"id"`
	Name               string  `yaml:"name"`
	Domain             string  `yaml:"domain"`
	BaseURL            string  `yaml:"base_url"`
	Kind               string  `yaml:"kind"`
	Priority           int     `yaml:"priority"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	RequestsPerMinute  int     `yaml:"requests_per_minute"`
}

type sourcesDoc struct {
	Sources []ResearchSource `yaml:"sources"`
}

// ResearchService produces ranked researched content for a keyword set.
// Single-source failures degrade the result, they never fail the call.
type ResearchService interface {
	Sources() []ResearchSource
	DefaultSourceConfigs() []types.ResearchSourceConfig
	Research(ctx context.Context, keywords []string, sources []types.ResearchSourceConfig, requestID string) ([]types.ResearchedContent, error)
}

// fetchFunc is the per-source fetch routine. The default implementation
// simulates the nine external sources deterministically; tests swap it out
// to exercise the failure path.
type fetchFunc func(ctx context.Context, src ResearchSource, keywords []string) ([]fetchedItem, error)

type fetchedItem struct {
	Title        string
	URL          string
	Content      string
	KeyTopics    []string
	CodeExamples []string
	UseCases     []string
}

type cacheEntry struct {
	items []types.ResearchedContent
	at    time.Time
}

type researchService struct {
	log     *logger.Logger
	genRepo repos.GenerationRepo
	limiter *slidingWindowLimiter
	fetch   fetchFunc
	now     func() time.Time

	sources []ResearchSource
	byID    map[string]ResearchSource

	cacheMu sync.Mutex
	cache   map[string]cacheEntry
}

func NewResearchService(baseLog *logger.Logger, genRepo repos.GenerationRepo) (ResearchService, error) {
	raw, err := sourcesFS.ReadFile("data/sources.yaml")
	if err != nil {
		return nil, fmt.Errorf("read source registry: %w", err)
	}
	var doc sourcesDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse source registry: %w", err)
	}
	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("source registry is empty")
	}

	s := &researchService{
		log:     baseLog.With("service", "ResearchService"),
		genRepo: genRepo,
		limiter: newSlidingWindowLimiter(10, rateLimitWindowSize),
		now:     time.Now,
		sources: doc.Sources,
		byID:    map[string]ResearchSource{},
		cache:   map[string]cacheEntry{},
	}
	s.fetch = s.simulateFetch
	for _, src := range doc.Sources {
		s.byID[src.ID] = src
	}
	return s, nil
}

func (s *researchService) Sources() []ResearchSource {
	out := make([]ResearchSource, len(s.sources))
	copy(out, s.sources)
	return out
}

// DefaultSourceConfigs enables every registered source at its registry
// priority.
func (s *researchService) DefaultSourceConfigs() []types.ResearchSourceConfig {
	out := make([]types.ResearchSourceConfig, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, types.ResearchSourceConfig{
			Source:   src.ID,
			Enabled:  true,
			Priority: src.Priority,
		})
	}
	return out
}

// Research walks the enabled sources in list order, scoring and caching
// per source, then applies the authoritative cross-source ranking.
func (s *researchService) Research(ctx context.Context, keywords []string, sources []types.ResearchSourceConfig, requestID string) ([]types.ResearchedContent, error) {
	enabled := make([]types.ResearchSourceConfig, 0, len(sources))
	for _, cfg := range sources {
		if cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	if len(enabled) == 0 {
		return []types.ResearchedContent{}, nil
	}

	var all []types.ResearchedContent
	for i, cfg := range enabled {
		src, ok := s.byID[cfg.Source]
		if !ok {
			s.appendRequestLog(requestID, fmt.Sprintf("unknown research source %q skipped", cfg.Source))
			continue
		}

		items, err := s.researchSource(ctx, src, keywords)
		if err != nil {
			// Partial failure: log it against the request and move on.
			s.log.Warn("research source failed", "source", src.ID, "error", err)
			s.appendRequestLog(requestID, fmt.Sprintf("source %s failed: %v", src.ID, err))
		} else {
			all = append(all, items...)
		}

		pct := 10 + 20*(i+1)/len(enabled)
		step := fmt.Sprintf("Researching %s", src.Name)
		s.genRepo.UpdateGenerationProgress(requestID, types.GenerationProgressUpdate{
			CurrentStep: &step,
			Progress:    &pct,
			Logs:        []string{fmt.Sprintf("[%s] researched %s (%d items)", s.now().Format(time.RFC3339), src.ID, len(items))},
		})
	}

	return filterAndRankResults(all), nil
}

func (s *researchService) researchSource(ctx context.Context, src ResearchSource, keywords []string) ([]types.ResearchedContent, error) {
	key := src.ID + "|" + strings.Join(keywords, "-")

	s.cacheMu.Lock()
	if entry, ok := s.cache[key]; ok && s.now().Sub(entry.at) < researchCacheTTL {
		items := entry.items
		s.cacheMu.Unlock()
		return items, nil
	}
	s.cacheMu.Unlock()

	// Rate-limit per domain; a denied call skips the source for this
	// pass rather than erroring.
	if !s.limiter.AllowN(src.Domain, src.RequestsPerMinute) {
		s.log.Debug("rate limit hit, skipping source", "domain", src.Domain, "source", src.ID)
		return nil, nil
	}

	fetched, err := s.fetch(ctx, src, keywords)
	if err != nil {
		return nil, err
	}

	items := make([]types.ResearchedContent, 0, len(fetched))
	for _, f := range fetched {
		score := relevanceScore(f.Content, keywords)
		if score < src.RelevanceThreshold {
			continue
		}
		items = append(items, types.ResearchedContent{
			Source:         src.ID,
			URL:            f.URL,
			Title:          f.Title,
			Content:        f.Content,
			RelevanceScore: score,
			ExtractedAt:    s.now(),
			KeyTopics:      f.KeyTopics,
			CodeExamples:   f.CodeExamples,
			UseCases:       f.UseCases,
		})
	}

	s.cacheMu.Lock()
	s.cache[key] = cacheEntry{items: items, at: s.now()}
	s.cacheMu.Unlock()
	return items, nil
}

func (s *researchService) appendRequestLog(requestID, line string) {
	s.genRepo.UpdateGenerationProgress(requestID, types.GenerationProgressUpdate{
		Logs: []string{fmt.Sprintf("[%s] %s", s.now().Format(time.RFC3339), line)},
	})
}

// relevanceScore is a capped term-frequency heuristic: 0.1 per keyword
// occurrence, clamped to 1.
func relevanceScore(content string, keywords []string) float64 {
	lower := strings.ToLower(content)
	score := 0.0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		score += 0.1 * float64(strings.Count(lower, kw))
	}
	if score > 1 {
		return 1
	}
	return score
}

// filterAndRankResults is the authoritative cross-source ranking: floor at
// 0.2, descending relevance, top 20.
func filterAndRankResults(items []types.ResearchedContent) []types.ResearchedContent {
	out := make([]types.ResearchedContent, 0, len(items))
	for _, it := range items {
		if it.RelevanceScore >= crossSourceFloor {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if len(out) > maxRankedResults {
		out = out[:maxRankedResults]
	}
	return out
}
