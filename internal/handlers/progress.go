package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/services"
)

type ProgressHandler struct {
	log *logger.Logger
	svc services.ProgressService
}

func NewProgressHandler(log *logger.Logger, svc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log: log.With("handler", "ProgressHandler"),
		svc: svc,
	}
}

// GET /api/progress
func (h *ProgressHandler) Get(c *gin.Context) {
	progress, err := h.svc.Get(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "progress_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// PUT /api/progress/role
func (h *ProgressHandler) SetRole(c *gin.Context) {
	var req struct {
		RoleID string `json:"role_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RoleID) == "" {
		RespondError(c, http.StatusBadRequest, "invalid_role", errors.New("role_id is required"))
		return
	}
	progress, err := h.svc.SetRole(c.Request.Context(), req.RoleID)
	if err != nil {
		if errors.Is(err, repos.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_role", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "role_update_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// POST /api/progress/modules/:id/complete
func (h *ProgressHandler) CompleteModule(c *gin.Context) {
	progress, err := h.svc.CompleteModule(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "module_complete_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// POST /api/progress/onboarding/seen
func (h *ProgressHandler) MarkOnboardingSeen(c *gin.Context) {
	progress, err := h.svc.MarkOnboardingSeen(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "onboarding_update_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// DELETE /api/progress
func (h *ProgressHandler) Reset(c *gin.Context) {
	progress, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "progress_reset_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}
