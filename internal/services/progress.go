package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jaffrepaul/sentry-academy-backend/internal/catalog"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

// ProgressService owns the session's progress record: rehydrates it on
// start and writes it back through the KV slot on every change.
type ProgressService interface {
	Get(ctx context.Context) (types.UserProgress, error)
	SetRole(ctx context.Context, roleID string) (types.UserProgress, error)
	CompleteModule(ctx context.Context, moduleID string) (types.UserProgress, error)
	MarkOnboardingSeen(ctx context.Context) (types.UserProgress, error)
	Reset(ctx context.Context) (types.UserProgress, error)
}

type progressService struct {
	log          *logger.Logger
	catalog      *catalog.Catalog
	progressRepo repos.ProgressRepo
	recSvc       RecommendationService
}

func NewProgressService(
	baseLog *logger.Logger,
	cat *catalog.Catalog,
	progressRepo repos.ProgressRepo,
	recSvc RecommendationService,
) ProgressService {
	return &progressService{
		log:          baseLog.With("service", "ProgressService"),
		catalog:      cat,
		progressRepo: progressRepo,
		recSvc:       recSvc,
	}
}

func (s *progressService) Get(ctx context.Context) (types.UserProgress, error) {
	return s.progressRepo.Load(ctx)
}

// SetRole selects a role and resets completion state.
func (s *progressService) SetRole(ctx context.Context, roleID string) (types.UserProgress, error) {
	if _, ok := s.catalog.Role(roleID); !ok {
		return types.UserProgress{}, fmt.Errorf("unknown role %q: %w", roleID, repos.ErrInvalidArgument)
	}
	p, err := s.progressRepo.Load(ctx)
	if err != nil {
		return types.UserProgress{}, err
	}
	p.Role = roleID
	p.CurrentStep = 0
	p.CompletedSteps = []string{}
	p.CompletedModules = []string{}
	p.OnboardingCompleted = true
	p.HasSeenOnboarding = true
	p.LastActiveDate = time.Now()
	if err := s.progressRepo.Save(ctx, p); err != nil {
		return types.UserProgress{}, err
	}
	s.log.Info("role selected", "role", roleID)
	return p, nil
}

func (s *progressService) CompleteModule(ctx context.Context, moduleID string) (types.UserProgress, error) {
	p, err := s.progressRepo.Load(ctx)
	if err != nil {
		return types.UserProgress{}, err
	}
	updated := s.recSvc.CompleteModule(p, moduleID)
	if err := s.progressRepo.Save(ctx, updated); err != nil {
		return types.UserProgress{}, err
	}
	return updated, nil
}

func (s *progressService) MarkOnboardingSeen(ctx context.Context) (types.UserProgress, error) {
	p, err := s.progressRepo.Load(ctx)
	if err != nil {
		return types.UserProgress{}, err
	}
	p.HasSeenOnboarding = true
	if err := s.progressRepo.Save(ctx, p); err != nil {
		return types.UserProgress{}, err
	}
	return p, nil
}

// Reset clears the persisted slot and returns defaults.
func (s *progressService) Reset(ctx context.Context) (types.UserProgress, error) {
	p, err := s.progressRepo.Reset(ctx)
	if err != nil {
		return types.UserProgress{}, err
	}
	s.log.Info("progress reset")
	return p, nil
}
