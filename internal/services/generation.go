package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaffrepaul/sentry-academy-backend/internal/catalog"
	"github.com/jaffrepaul/sentry-academy-backend/internal/events"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

type StartGenerationInput struct {
	Keywords             []string                     `json:"keywords"`
	Sources              []types.ResearchSourceConfig `json:"sources"`
	TargetRoles          []string                     `json:"target_roles"`
	Template             *types.ContentTemplate       `json:"template"`
	IncludeCodeExamples  bool                         `json:"include_code_examples"`
	IncludeScenarios     bool                         `json:"include_scenarios"`
	GenerateLearningPath bool                         `json:"generate_learning_path"`
	CreatedBy            string                       `json:"created_by"`
}

type StartGenerationResult struct {
	Success           bool   `json:"success"`
	RequestID         string `json:"request_id"`
	EstimatedDuration string `json:"estimated_duration"`
}

// GenerationService drives the request → research → synthesis → modules →
// personalization → scoring pipeline and its status machine.
type GenerationService interface {
	StartContentGeneration(ctx context.Context, in StartGenerationInput) (StartGenerationResult, error)
	CancelGeneration(requestID string) bool
	GenerateCourseContent(ctx context.Context, req types.ContentGenerationRequest, researched []types.ResearchedContent) (types.AIGeneratedCourse, error)

	ApproveCourse(courseID, reviewer, notes string) bool
	RejectCourse(courseID, reviewer, notes string) bool
	ProcessBulkOperation(opType types.BulkOperationType, courseIDs []string) (types.BulkOperation, error)

	Shutdown()
}

type generationService struct {
	log         *logger.Logger
	catalog     *catalog.Catalog
	genRepo     repos.GenerationRepo
	researchSvc ResearchService
	matcher     TemplateMatcher
	ai          AIClient
	hub         *events.Hub
	scheduler   *jobScheduler
	startDelay  time.Duration
	tracer      trace.Tracer
}

func NewGenerationService(
	baseLog *logger.Logger,
	cat *catalog.Catalog,
	genRepo repos.GenerationRepo,
	researchSvc ResearchService,
	matcher TemplateMatcher,
	ai AIClient,
	hub *events.Hub,
	startDelay time.Duration,
) GenerationService {
	return &generationService{
		log:         baseLog.With("service", "GenerationService"),
		catalog:     cat,
		genRepo:     genRepo,
		researchSvc: researchSvc,
		matcher:     matcher,
		ai:          ai,
		hub:         hub,
		scheduler:   newJobScheduler(baseLog),
		startDelay:  startDelay,
		tracer:      otel.Tracer("generation"),
	}
}

// StartContentGeneration validates the input, records the request and
// schedules the pipeline as a deferred cancellable job. It returns
// immediately; callers observe progress through the store or the hub.
// Validation failures leave no partial state behind.
func (s *generationService) StartContentGeneration(ctx context.Context, in StartGenerationInput) (StartGenerationResult, error) {
	keywords := trimNonEmpty(in.Keywords)
	if len(keywords) == 0 {
		return StartGenerationResult{}, fmt.Errorf("at least one keyword is required: %w", repos.ErrInvalidArgument)
	}
	roles := trimNonEmpty(in.TargetRoles)
	if len(roles) == 0 {
		return StartGenerationResult{}, fmt.Errorf("at least one target role is required: %w", repos.ErrInvalidArgument)
	}
	sources := in.Sources
	if len(sources) == 0 {
		sources = s.researchSvc.DefaultSourceConfigs()
	}
	enabled := 0
	for _, src := range sources {
		if src.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return StartGenerationResult{}, fmt.Errorf("at least one enabled research source is required: %w", repos.ErrInvalidArgument)
	}

	req := types.ContentGenerationRequest{
		ID:                   uuid.NewString(),
		Keywords:             keywords,
		SelectedSources:      sources,
		TargetRoles:          roles,
		Template:             in.Template,
		IncludeCodeExamples:  in.IncludeCodeExamples,
		IncludeScenarios:     in.IncludeScenarios,
		GenerateLearningPath: in.GenerateLearningPath,
		CreatedAt:            time.Now(),
		CreatedBy:            in.CreatedBy,
	}
	s.genRepo.AddGenerationRequest(req)

	if err := s.scheduler.Schedule(req.ID, s.startDelay, func(jobCtx context.Context) {
		s.runPipeline(jobCtx, req)
	}); err != nil {
		return StartGenerationResult{}, err
	}

	s.log.Info("generation scheduled", "request_id", req.ID, "keywords", keywords, "roles", roles)
	return StartGenerationResult{
		Success:           true,
		RequestID:         req.ID,
		EstimatedDuration: "about 30 seconds",
	}, nil
}

// CancelGeneration stops a request whose job has not started yet. This is
// the only cancellation path in the system.
func (s *generationService) CancelGeneration(requestID string) bool {
	if !s.scheduler.Cancel(requestID) {
		return false
	}
	s.setProgress(requestID, statusPtr(types.GenerationStatusError), "Cancelled", 0, "generation cancelled before start", "generation cancelled by user")
	return true
}

func (s *generationService) Shutdown() {
	s.scheduler.Shutdown()
}

func (s *generationService) runPipeline(ctx context.Context, req types.ContentGenerationRequest) {
	ctx, span := s.tracer.Start(ctx, "generation.pipeline",
		trace.WithAttributes(attribute.String("request.id", req.ID)))
	defer span.End()

	s.setProgress(req.ID, statusPtr(types.GenerationStatusResearching), "Researching sources", 10, "", "research started")

	researched, err := s.researchSvc.Research(ctx, req.Keywords, req.SelectedSources, req.ID)
	if err != nil {
		s.failRequest(req.ID, fmt.Errorf("research: %w", err))
		return
	}

	s.setProgress(req.ID, statusPtr(types.GenerationStatusGenerating), "Synthesizing research", 40,
		"", fmt.Sprintf("research complete: %d items", len(researched)))

	course, err := s.GenerateCourseContent(ctx, req, researched)
	if err != nil {
		s.failRequest(req.ID, err)
		return
	}

	s.setProgress(req.ID, statusPtr(types.GenerationStatusReviewNeeded), "Ready for review", 100,
		"", fmt.Sprintf("course %s generated (quality %.2f)", course.ID, course.QualityScore))
	s.log.Info("generation complete", "request_id", req.ID, "course_id", course.ID, "quality", course.QualityScore)
}

// GenerateCourseContent runs the synthesis half of the pipeline and
// persists the assembled course. Any stage error is reported once here and
// returned to the caller after the request is flipped to error state.
func (s *generationService) GenerateCourseContent(ctx context.Context, req types.ContentGenerationRequest, researched []types.ResearchedContent) (course types.AIGeneratedCourse, err error) {
	ctx, span := s.tracer.Start(ctx, "generation.course")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panic: %v", r)
		}
	}()

	sc := s.synthesize(ctx, req, researched)

	s.setProgress(req.ID, nil, "Generating course structure", 60, "", "synthesis complete")

	pattern := s.matcher.Pattern(sc)
	meta := s.courseMetadata(ctx, req, pattern)
	modules := s.generateModules(req, sc, pattern, researched)

	s.setProgress(req.ID, nil, "Generating role personalizations", 80, "",
		fmt.Sprintf("%d modules generated", len(modules)))

	personalizations := s.generatePersonalizations(req, sc, pattern)

	score := computeQualityScore(sc, modules, personalizations, researched)

	var path []types.SuggestedPathStep
	if req.GenerateLearningPath {
		path = suggestLearningPath(modules)
	}

	now := time.Now()
	course = types.AIGeneratedCourse{
		Course:                meta,
		IsAIGenerated:         true,
		GenerationRequest:     req,
		ResearchSources:       researched,
		SynthesizedContent:    sc,
		GeneratedModules:      modules,
		RolePersonalizations:  personalizations,
		SuggestedLearningPath: path,
		QualityScore:          score,
		GeneratedAt:           now,
		LastModified:          now,
		Version:               1,
	}
	s.genRepo.AddCourse(course)

	settings := s.genRepo.Settings()
	s.genRepo.AddApprovalWorkflow(types.ApprovalWorkflow{
		ID:       uuid.NewString(),
		CourseID: course.ID,
		Status:   types.WorkflowStatusPending,
		ApprovalCriteria: []types.ApprovalCriterion{
			{Name: "metadata complete", Passed: course.Title != "" && course.Description != ""},
			{Name: "module count in range", Passed: len(modules) >= 3 && len(modules) <= 8},
			{Name: "all target roles covered", Passed: len(personalizations) == len(req.TargetRoles)},
			{Name: "quality above review threshold", Passed: score >= settings.AutoApproveThreshold},
		},
		CreatedAt: now,
	})

	return course, nil
}

func (s *generationService) courseMetadata(ctx context.Context, req types.ContentGenerationRequest, pattern types.ContentPattern) types.Course {
	tmpl := req.Template

	roleTitle := ""
	if len(req.TargetRoles) == 1 {
		if role, ok := s.catalog.Role(req.TargetRoles[0]); ok {
			roleTitle = role.Title
		}
	}
	title := s.matcher.CourseTitle(pattern, roleTitle)
	if tmpl != nil && tmpl.TitlePattern != "" {
		subject := "Sentry"
		if len(pattern.Concepts) > 0 {
			subject = pattern.Concepts[0]
		}
		if strings.Contains(tmpl.TitlePattern, "%s") {
			title = fmt.Sprintf(tmpl.TitlePattern, subject)
		} else {
			title = tmpl.TitlePattern
		}
	}

	maxChars := 280
	if tmpl != nil && tmpl.MaxDescriptionChars > 0 {
		maxChars = tmpl.MaxDescriptionChars
	}
	description := s.matcher.CourseDescription(pattern, maxChars)
	if text, err := s.ai.Chat(ctx, []AIMessage{
		{Role: "system", Content: "You write concise course descriptions for an observability academy."},
		{Role: "user", Content: description},
	}, &AIOptions{MaxTokens: 120, Temperature: 0.4}); err == nil && text != "" {
		description = text
	} else if err != nil {
		s.log.Warn("ai description failed, using template", "error", err)
	}

	moduleCount := s.moduleCount(req, pattern)
	hours := (moduleCount*30 + 59) / 60
	duration := fmt.Sprintf("%d hours", hours)
	level := pattern.Complexity
	category := "AI Generated"
	if tmpl != nil {
		if tmpl.Duration != "" {
			duration = tmpl.Duration
		}
		if tmpl.Level != "" {
			level = tmpl.Level
		}
		if tmpl.Category != "" {
			category = tmpl.Category
		}
	}

	return types.Course{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Duration:    duration,
		Level:       level,
		Rating:      4.5,
		Students:    0,
		Category:    category,
	}
}

// moduleCount honors an explicit template size when one is supplied and
// falls back to the matcher's clamp otherwise.
func (s *generationService) moduleCount(req types.ContentGenerationRequest, pattern types.ContentPattern) int {
	if req.Template != nil && req.Template.ModuleCount > 0 {
		return req.Template.ModuleCount
	}
	return s.matcher.ModuleCount(pattern)
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func statusPtr(s types.GenerationStatus) *types.GenerationStatus { return &s }

// setProgress merge-updates the request's progress record and publishes
// the transition to hub subscribers.
func (s *generationService) setProgress(requestID string, status *types.GenerationStatus, step string, pct int, errMsg string, logLine string) {
	upd := types.GenerationProgressUpdate{
		CurrentStep: &step,
		Progress:    &pct,
	}
	if status != nil {
		upd.Status = status
	}
	if errMsg != "" {
		upd.Error = &errMsg
	}
	if logLine != "" {
		upd.Logs = []string{fmt.Sprintf("[%s] %s", time.Now().Format(time.RFC3339), logLine)}
	}
	s.genRepo.UpdateGenerationProgress(requestID, upd)

	ev := events.ProgressEvent{RequestID: requestID, CurrentStep: step, Progress: pct, Error: errMsg}
	if status != nil {
		ev.Status = *status
	} else if p, ok := s.genRepo.GetGenerationProgress(requestID); ok {
		ev.Status = p.Status
	}
	s.hub.Publish(ev)
}

func (s *generationService) failRequest(requestID string, err error) {
	s.log.Error("generation failed", "request_id", requestID, "error", err)
	s.setProgress(requestID, statusPtr(types.GenerationStatusError), "Generation failed", 0, err.Error(), fmt.Sprintf("error: %v", err))
}
