package repos

import (
	"fmt"
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

// GenerationRepo is the in-memory repository behind the admin panel:
// generation requests, per-request progress, generated courses, approval
// workflows, bulk operations and the settings record. Instances are
// injected, never shared through package state, so tests construct their
// own.
//
// Mutations on unknown ids return false and leave the store untouched.
type GenerationRepo interface {
	AddGenerationRequest(req types.ContentGenerationRequest)
	GetGenerationRequest(id string) (types.ContentGenerationRequest, bool)
	ListGenerationRequests() []types.ContentGenerationRequest

	GetGenerationProgress(id string) (types.GenerationProgress, bool)
	UpdateGenerationProgress(id string, upd types.GenerationProgressUpdate) bool

	AddCourse(c types.AIGeneratedCourse)
	GetCourse(id string) (types.AIGeneratedCourse, bool)
	ListCourses() []types.AIGeneratedCourse
	UpdateCourse(id string, upd types.CourseUpdate) bool
	DeleteCourse(id string) bool

	AddApprovalWorkflow(w types.ApprovalWorkflow)
	GetApprovalWorkflow(id string) (types.ApprovalWorkflow, bool)
	GetWorkflowForCourse(courseID string) (types.ApprovalWorkflow, bool)
	ListApprovalWorkflows() []types.ApprovalWorkflow
	UpdateApprovalWorkflow(id string, upd types.WorkflowUpdate) bool

	AddBulkOperation(op types.BulkOperation)
	GetBulkOperation(id string) (types.BulkOperation, bool)
	ListBulkOperations() []types.BulkOperation
	UpdateBulkOperation(id string, upd types.BulkOperationUpdate) bool

	Settings() types.GenerationSettings
	UpdateSettings(s types.GenerationSettings)

	GenerationStats() types.GenerationStats
	MergeWithExistingCourses(existing []types.Course) []types.Course
}

type generationRepo struct {
	mu  sync.RWMutex
	log *logger.Logger

	requests     map[string]types.ContentGenerationRequest
	requestOrder []string

	progress map[string]types.GenerationProgress

	courses     map[string]types.AIGeneratedCourse
	courseOrder []string

	workflows     map[string]types.ApprovalWorkflow
	workflowOrder []string

	bulkOps     map[string]types.BulkOperation
	bulkOpOrder []string

	settings types.GenerationSettings
}

func NewGenerationRepo(baseLog *logger.Logger) GenerationRepo {
	return &generationRepo{
		log:       baseLog.With("repo", "GenerationRepo"),
		requests:  map[string]types.ContentGenerationRequest{},
		progress:  map[string]types.GenerationProgress{},
		courses:   map[string]types.AIGeneratedCourse{},
		workflows: map[string]types.ApprovalWorkflow{},
		bulkOps:   map[string]types.BulkOperation{},
		settings:  types.DefaultGenerationSettings(),
	}
}

func (r *generationRepo) AddGenerationRequest(req types.ContentGenerationRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.requests[req.ID]; !exists {
		r.requestOrder = append(r.requestOrder, req.ID)
	}
	r.requests[req.ID] = req
	now := time.Now()
	r.progress[req.ID] = types.GenerationProgress{
		RequestID:   req.ID,
		Status:      types.GenerationStatusPending,
		CurrentStep: "Request created",
		Progress:    0,
		Logs:        []string{fmt.Sprintf("[%s] generation request created", now.Format(time.RFC3339))},
		UpdatedAt:   now,
	}
}

func (r *generationRepo) GetGenerationRequest(id string) (types.ContentGenerationRequest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	return req, ok
}

func (r *generationRepo) ListGenerationRequests() []types.ContentGenerationRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.ContentGenerationRequest, 0, len(r.requestOrder))
	for _, id := range r.requestOrder {
		out = append(out, r.requests[id])
	}
	return out
}

func (r *generationRepo) GetGenerationProgress(id string) (types.GenerationProgress, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.progress[id]
	return p, ok
}

// UpdateGenerationProgress merge-updates the progress record. Logs are
// concatenated onto the existing list, never replaced.
func (r *generationRepo) UpdateGenerationProgress(id string, upd types.GenerationProgressUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.progress[id]
	if !ok {
		return false
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.CurrentStep != nil {
		p.CurrentStep = *upd.CurrentStep
	}
	if upd.Progress != nil {
		p.Progress = *upd.Progress
	}
	if upd.Error != nil {
		p.Error = *upd.Error
	}
	if len(upd.Logs) > 0 {
		p.Logs = append(p.Logs, upd.Logs...)
	}
	p.UpdatedAt = time.Now()
	r.progress[id] = p
	return true
}

func (r *generationRepo) AddCourse(c types.AIGeneratedCourse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.courses[c.ID]; !exists {
		r.courseOrder = append(r.courseOrder, c.ID)
	}
	r.courses[c.ID] = c
}

func (r *generationRepo) GetCourse(id string) (types.AIGeneratedCourse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	return c, ok
}

func (r *generationRepo) ListCourses() []types.AIGeneratedCourse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.AIGeneratedCourse, 0, len(r.courseOrder))
	for _, id := range r.courseOrder {
		out = append(out, r.courses[id])
	}
	return out
}

// UpdateCourse merges set fields, stamps LastModified and bumps Version.
func (r *generationRepo) UpdateCourse(id string, upd types.CourseUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return false
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Duration != nil {
		c.Duration = *upd.Duration
	}
	if upd.Level != nil {
		c.Level = *upd.Level
	}
	if upd.Category != nil {
		c.Category = *upd.Category
	}
	if upd.IsPopular != nil {
		c.IsPopular = *upd.IsPopular
	}
	if upd.QualityScore != nil {
		c.QualityScore = *upd.QualityScore
	}
	if upd.ReviewNotes != nil {
		c.ReviewNotes = *upd.ReviewNotes
	}
	if upd.ApprovedBy != nil {
		c.ApprovedBy = *upd.ApprovedBy
	}
	if upd.ApprovedAt != nil {
		c.ApprovedAt = upd.ApprovedAt
	}
	c.LastModified = time.Now()
	c.Version++
	r.courses[id] = c
	return true
}

func (r *generationRepo) DeleteCourse(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return false
	}
	delete(r.courses, id)
	for i, cid := range r.courseOrder {
		if cid == id {
			r.courseOrder = append(r.courseOrder[:i], r.courseOrder[i+1:]...)
			break
		}
	}
	return true
}

func (r *generationRepo) AddApprovalWorkflow(w types.ApprovalWorkflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.workflows[w.ID]; !exists {
		r.workflowOrder = append(r.workflowOrder, w.ID)
	}
	r.workflows[w.ID] = w
}

func (r *generationRepo) GetApprovalWorkflow(id string) (types.ApprovalWorkflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workflows[id]
	return w, ok
}

func (r *generationRepo) GetWorkflowForCourse(courseID string) (types.ApprovalWorkflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.workflowOrder {
		if r.workflows[id].CourseID == courseID {
			return r.workflows[id], true
		}
	}
	return types.ApprovalWorkflow{}, false
}

func (r *generationRepo) ListApprovalWorkflows() []types.ApprovalWorkflow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.ApprovalWorkflow, 0, len(r.workflowOrder))
	for _, id := range r.workflowOrder {
		out = append(out, r.workflows[id])
	}
	return out
}

func (r *generationRepo) UpdateApprovalWorkflow(id string, upd types.WorkflowUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workflows[id]
	if !ok {
		return false
	}
	if upd.Status != nil {
		w.Status = *upd.Status
	}
	if upd.AssignedReviewer != nil {
		w.AssignedReviewer = *upd.AssignedReviewer
	}
	if len(upd.Comments) > 0 {
		w.ReviewComments = append(w.ReviewComments, upd.Comments...)
	}
	for _, commentID := range upd.ResolveCommentIDs {
		for i := range w.ReviewComments {
			if w.ReviewComments[i].ID == commentID {
				w.ReviewComments[i].Resolved = true
			}
		}
	}
	if upd.Criteria != nil {
		w.ApprovalCriteria = upd.Criteria
	}
	if upd.ReviewedAt != nil {
		w.ReviewedAt = upd.ReviewedAt
	}
	r.workflows[id] = w
	return true
}

func (r *generationRepo) AddBulkOperation(op types.BulkOperation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bulkOps[op.ID]; !exists {
		r.bulkOpOrder = append(r.bulkOpOrder, op.ID)
	}
	r.bulkOps[op.ID] = op
}

func (r *generationRepo) GetBulkOperation(id string) (types.BulkOperation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.bulkOps[id]
	return op, ok
}

func (r *generationRepo) ListBulkOperations() []types.BulkOperation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.BulkOperation, 0, len(r.bulkOpOrder))
	for _, id := range r.bulkOpOrder {
		out = append(out, r.bulkOps[id])
	}
	return out
}

func (r *generationRepo) UpdateBulkOperation(id string, upd types.BulkOperationUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.bulkOps[id]
	if !ok {
		return false
	}
	if upd.Status != nil {
		op.Status = *upd.Status
	}
	if upd.Progress != nil {
		op.Progress = *upd.Progress
	}
	if len(upd.Results) > 0 {
		op.Results = append(op.Results, upd.Results...)
	}
	if upd.CompletedAt != nil {
		op.CompletedAt = upd.CompletedAt
	}
	r.bulkOps[id] = op
	return true
}

func (r *generationRepo) Settings() types.GenerationSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

func (r *generationRepo) UpdateSettings(s types.GenerationSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = s
}

// GenerationStats derives counts and the mean quality score. An empty
// store reports zeroes, never a division by zero.
func (r *generationRepo) GenerationStats() types.GenerationStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := types.GenerationStats{
		TotalRequests:    len(r.requests),
		TotalCourses:     len(r.courses),
		StatusCounts:     map[string]int{},
		RoleDistribution: map[string]int{},
	}

	for _, id := range r.requestOrder {
		status := "unknown"
		if p, ok := r.progress[id]; ok && p.Status != "" {
			status = string(p.Status)
		}
		out.StatusCounts[status]++
		for _, role := range r.requests[id].TargetRoles {
			out.RoleDistribution[role]++
		}
	}

	scores := make([]float64, 0, len(r.courses))
	for _, c := range r.courses {
		if c.Approved() {
			out.ApprovedCourses++
		}
		scores = append(scores, c.QualityScore)
	}
	if len(scores) > 0 {
		mean, err := stats.Mean(scores)
		if err == nil {
			out.AverageQualityScore = mean
		}
	}

	for _, id := range r.workflowOrder {
		switch r.workflows[id].Status {
		case types.WorkflowStatusPending, types.WorkflowStatusInReview:
			out.PendingApproval++
		}
	}

	return out
}

// MergeWithExistingCourses returns existing plus the base-Course
// projection of every approved AI course. The input slice is not mutated.
func (r *generationRepo) MergeWithExistingCourses(existing []types.Course) []types.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Course, 0, len(existing)+len(r.courses))
	out = append(out, existing...)
	for _, id := range r.courseOrder {
		c := r.courses[id]
		if c.Approved() {
			out = append(out, c.Course)
		}
	}
	return out
}
