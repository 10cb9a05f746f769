package repos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

// ProgressKey is the fixed storage slot the serialized progress record
// lives under.
const ProgressKey = "sentry-academy-user-progress"

// ProgressRepo persists the single user-progress record through the KV
// slot. Load on a missing key returns defaults, not an error.
type ProgressRepo interface {
	Load(ctx context.Context) (types.UserProgress, error)
	Save(ctx context.Context, p types.UserProgress) error
	Reset(ctx context.Context) (types.UserProgress, error)
}

type progressRepo struct {
	kv  KV
	log *logger.Logger
}

func NewProgressRepo(kv KV, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{
		kv:  kv,
		log: baseLog.With("repo", "ProgressRepo"),
	}
}

func (r *progressRepo) Load(ctx context.Context) (types.UserProgress, error) {
	raw, ok, err := r.kv.Get(ctx, ProgressKey)
	if err != nil {
		return types.UserProgress{}, fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		return types.NewUserProgress(), nil
	}
	var p types.UserProgress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// A corrupt slot is treated like an absent one.
		r.log.Warn("stored progress unreadable, using defaults", "error", err)
		return types.NewUserProgress(), nil
	}
	if p.CompletedSteps == nil {
		p.CompletedSteps = []string{}
	}
	if p.CompletedModules == nil {
		p.CompletedModules = []string{}
	}
	return p, nil
}

func (r *progressRepo) Save(ctx context.Context, p types.UserProgress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := r.kv.Set(ctx, ProgressKey, string(raw)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (r *progressRepo) Reset(ctx context.Context) (types.UserProgress, error) {
	if err := r.kv.Remove(ctx, ProgressKey); err != nil {
		return types.UserProgress{}, fmt.Errorf("reset progress: %w", err)
	}
	return types.NewUserProgress(), nil
}
