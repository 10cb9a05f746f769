package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/services"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

type CourseHandler struct {
	log       *logger.Logger
	genSvc    services.GenerationService
	validator services.ValidatorService
	genRepo   repos.GenerationRepo
}

func NewCourseHandler(
	log *logger.Logger,
	genSvc services.GenerationService,
	validator services.ValidatorService,
	genRepo repos.GenerationRepo,
) *CourseHandler {
	return &CourseHandler{
		log:       log.With("handler", "CourseHandler"),
		genSvc:    genSvc,
		validator: validator,
		genRepo:   genRepo,
	}
}

// GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"courses": h.genRepo.ListCourses()})
}

// GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, ok := h.genRepo.GetCourse(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "course_not_found", errors.New("unknown course"))
		return
	}
	RespondOK(c, gin.H{"course": course})
}

type courseUpdateRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Duration     *string  `json:"duration"`
	Level        *string  `json:"level"`
	Category     *string  `json:"category"`
	IsPopular    *bool    `json:"is_popular"`
	QualityScore *float64 `json:"quality_score"`
	ReviewNotes  *string  `json:"review_notes"`
}

// PATCH /api/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	id := c.Param("id")
	ok := h.genRepo.UpdateCourse(id, types.CourseUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		Level:        req.Level,
		Category:     req.Category,
		IsPopular:    req.IsPopular,
		QualityScore: req.QualityScore,
		ReviewNotes:  req.ReviewNotes,
	})
	if !ok {
		RespondError(c, http.StatusNotFound, "course_not_found", errors.New("unknown course"))
		return
	}
	course, _ := h.genRepo.GetCourse(id)
	RespondOK(c, gin.H{"course": course})
}

// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if !h.genRepo.DeleteCourse(c.Param("id")) {
		RespondError(c, http.StatusNotFound, "course_not_found", errors.New("unknown course"))
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// POST /api/courses/:id/validate
func (h *CourseHandler) Validate(c *gin.Context) {
	course, ok := h.genRepo.GetCourse(c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "course_not_found", errors.New("unknown course"))
		return
	}
	RespondOK(c, gin.H{"result": h.validator.ValidateCourseStructure(course)})
}

type reviewRequest struct {
	Reviewer string `json:"reviewer"`
	Notes    string `json:"notes"`
}

// POST /api/courses/:id/approve
func (h *CourseHandler) Approve(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if !h.genSvc.ApproveCourse(c.Param("id"), req.Reviewer, req.Notes) {
		RespondError(c, http.StatusNotFound, "course_not_found", errors.New("unknown course"))
		return
	}
	course, _ := h.genRepo.GetCourse(c.Param("id"))
	RespondOK(c, gin.H{"course": course})
}

// POST /api/courses/:id/reject
func (h *CourseHandler) Reject(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if !h.genSvc.RejectCourse(c.Param("id"), req.Reviewer, req.Notes) {
		RespondError(c, http.StatusNotFound, "course_not_found", errors.New("unknown course"))
		return
	}
	course, _ := h.genRepo.GetCourse(c.Param("id"))
	RespondOK(c, gin.H{"course": course})
}

// POST /api/courses/merged
// Merges approved AI courses into a caller-supplied curated catalog.
func (h *CourseHandler) Merged(c *gin.Context) {
	var req struct {
		Courses []types.Course `json:"courses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	RespondOK(c, gin.H{
		"courses":   h.genRepo.MergeWithExistingCourses(req.Courses),
		"merged_at": time.Now().UTC(),
	})
}
