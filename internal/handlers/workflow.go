package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

type WorkflowHandler struct {
	log     *logger.Logger
	genRepo repos.GenerationRepo
}

func NewWorkflowHandler(log *logger.Logger, genRepo repos.GenerationRepo) *WorkflowHandler {
	return &WorkflowHandler{
		log:     log.With("handler", "WorkflowHandler"),
		genRepo: genRepo,
	}
}

// GET /api/workflows
func (h *WorkflowHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"workflows": h.genRepo.ListApprovalWorkflows()})
}

// GET /api/workflows/:id
func (h *WorkflowHandler) Get(c *gin.Context) {
	workflow, ok := h.genRepo.GetApprovalWorkflow(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "workflow_not_found", errors.New("unknown workflow"))
		return
	}
	RespondOK(c, gin.H{"workflow": workflow})
}

type workflowCommentRequest struct {
	Author  string `json:"author"`
	Comment string `json:"comment"`
}

type workflowUpdateRequest struct {
	AssignedReviewer  *string                 `json:"assigned_reviewer"`
	Comment           *workflowCommentRequest `json:"comment"`
	ResolveCommentIDs []string                `json:"resolve_comment_ids"`
}

// PATCH /api/workflows/:id
func (h *WorkflowHandler) Update(c *gin.Context) {
	workflow, ok := h.genRepo.GetApprovalWorkflow(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "workflow_not_found", errors.New("unknown workflow"))
		return
	}

	var req workflowUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.AssignedReviewer == nil && req.Comment == nil && len(req.ResolveCommentIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("nothing to update"))
		return
	}

	upd := types.WorkflowUpdate{ResolveCommentIDs: req.ResolveCommentIDs}
	if req.AssignedReviewer != nil {
		upd.AssignedReviewer = req.AssignedReviewer
		// Assigning a reviewer moves a pending workflow into review.
		if workflow.Status == types.WorkflowStatusPending {
			status := types.WorkflowStatusInReview
			upd.Status = &status
		}
	}
	if req.Comment != nil {
		if strings.TrimSpace(req.Comment.Comment) == "" {
			RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("empty comment"))
			return
		}
		upd.Comments = []types.ReviewComment{{
			ID:        uuid.NewString(),
			Author:    req.Comment.Author,
			Comment:   req.Comment.Comment,
			CreatedAt: time.Now(),
		}}
	}

	h.genRepo.UpdateApprovalWorkflow(workflow.ID, upd)
	updated, _ := h.genRepo.GetApprovalWorkflow(workflow.ID)
	RespondOK(c, gin.H{"workflow": updated})
}

// GET /api/courses/:id/workflow
func (h *WorkflowHandler) GetForCourse(c *gin.Context) {
	workflow, ok := h.genRepo.GetWorkflowForCourse(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "workflow_not_found", errors.New("no workflow for course"))
		return
	}
	RespondOK(c, gin.H{"workflow": workflow})
}
