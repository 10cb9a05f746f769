package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/services"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

type BulkHandler struct {
	log     *logger.Logger
	genSvc  services.GenerationService
	genRepo repos.GenerationRepo
}

func NewBulkHandler(log *logger.Logger, genSvc services.GenerationService, genRepo repos.GenerationRepo) *BulkHandler {
	return &BulkHandler{
		log:     log.With("handler", "BulkHandler"),
		genSvc:  genSvc,
		genRepo: genRepo,
	}
}

// POST /api/bulk
func (h *BulkHandler) Process(c *gin.Context) {
	var req struct {
		Type      types.BulkOperationType `json:"type"`
		CourseIDs []string                `json:"course_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	op, err := h.genSvc.ProcessBulkOperation(req.Type, req.CourseIDs)
	if err != nil {
		if errors.Is(err, repos.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_operation", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "bulk_operation_failed", err)
		return
	}
	RespondOK(c, gin.H{"operation": op})
}

// GET /api/bulk
func (h *BulkHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"operations": h.genRepo.ListBulkOperations()})
}

// GET /api/bulk/:id
func (h *BulkHandler) Get(c *gin.Context) {
	op, ok := h.genRepo.GetBulkOperation(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "operation_not_found", errors.New("unknown bulk operation"))
		return
	}
	RespondOK(c, gin.H{"operation": op})
}
