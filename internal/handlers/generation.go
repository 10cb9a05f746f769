package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/events"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/services"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

type GenerationHandler struct {
	log         *logger.Logger
	genSvc      services.GenerationService
	researchSvc services.ResearchService
	genRepo     repos.GenerationRepo
	hub         *events.Hub
}

func NewGenerationHandler(
	log *logger.Logger,
	genSvc services.GenerationService,
	researchSvc services.ResearchService,
	genRepo repos.GenerationRepo,
	hub *events.Hub,
) *GenerationHandler {
	return &GenerationHandler{
		log:         log.With("handler", "GenerationHandler"),
		genSvc:      genSvc,
		researchSvc: researchSvc,
		genRepo:     genRepo,
		hub:         hub,
	}
}

// POST /api/generation
func (h *GenerationHandler) Start(c *gin.Context) {
	var in services.StartGenerationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := h.genSvc.StartContentGeneration(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, repos.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "generation_start_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// DELETE /api/generation/:id
func (h *GenerationHandler) Cancel(c *gin.Context) {
	requestID := c.Param("id")
	if !h.genSvc.CancelGeneration(requestID) {
		RespondError(c, http.StatusNotFound, "not_cancellable", errors.New("no pending generation for request id"))
		return
	}
	RespondOK(c, gin.H{"cancelled": true, "request_id": requestID})
}

// GET /api/generation
func (h *GenerationHandler) ListRequests(c *gin.Context) {
	RespondOK(c, gin.H{"requests": h.genRepo.ListGenerationRequests()})
}

// GET /api/generation/:id/progress
func (h *GenerationHandler) GetProgress(c *gin.Context) {
	progress, ok := h.genRepo.GetGenerationProgress(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "request_not_found", errors.New("unknown generation request"))
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// GET /api/generation/:id/stream
// Streams progress events as SSE until the request reaches a terminal
// status or the client disconnects.
func (h *GenerationHandler) StreamProgress(c *gin.Context) {
	requestID := c.Param("id")
	if _, ok := h.genRepo.GetGenerationRequest(requestID); !ok {
		RespondError(c, http.StatusNotFound, "request_not_found", errors.New("unknown generation request"))
		return
	}

	ch, cancel := h.hub.Subscribe(requestID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("progress", ev)
			return !ev.Status.Terminal()
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// GET /api/generation/sources
func (h *GenerationHandler) ListSources(c *gin.Context) {
	RespondOK(c, gin.H{
		"sources":  h.researchSvc.Sources(),
		"defaults": h.researchSvc.DefaultSourceConfigs(),
	})
}

// GET /api/generation/settings
func (h *GenerationHandler) GetSettings(c *gin.Context) {
	RespondOK(c, gin.H{"settings": h.genRepo.Settings()})
}

// PUT /api/generation/settings
func (h *GenerationHandler) UpdateSettings(c *gin.Context) {
	var settings types.GenerationSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	h.genRepo.UpdateSettings(settings)
	RespondOK(c, gin.H{"settings": h.genRepo.Settings()})
}

// GET /api/generation/stats
func (h *GenerationHandler) GetStats(c *gin.Context) {
	RespondOK(c, gin.H{"stats": h.genRepo.GenerationStats()})
}
