package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/services"
)

type RecommendationHandler struct {
	log         *logger.Logger
	recSvc      services.RecommendationService
	progressSvc services.ProgressService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService, progressSvc services.ProgressService) *RecommendationHandler {
	return &RecommendationHandler{
		log:         log.With("handler", "RecommendationHandler"),
		recSvc:      recSvc,
		progressSvc: progressSvc,
	}
}

// GET /api/recommendations/next-content
// Returns {"recommendation": null} when no role is selected or the path is
// complete; an empty recommendation is not an error.
func (h *RecommendationHandler) NextContent(c *gin.Context) {
	progress, err := h.progressSvc.Get(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "progress_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendation": h.recSvc.NextContent(progress)})
}

// GET /api/content/personalized?module_id=...&role_id=...
func (h *RecommendationHandler) PersonalizedContent(c *gin.Context) {
	moduleID := c.Query("module_id")
	roleID := c.Query("role_id")
	if moduleID == "" || roleID == "" {
		RespondError(c, http.StatusBadRequest, "missing_params", errors.New("module_id and role_id are required"))
		return
	}
	content := h.recSvc.PersonalizedContent(moduleID, roleID)
	if content == nil {
		RespondError(c, http.StatusNotFound, "personalization_not_found", errors.New("no personalization for module and role"))
		return
	}
	RespondOK(c, gin.H{"content": content})
}
