package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/catalog"
	"github.com/jaffrepaul/sentry-academy-backend/internal/events"
	"github.com/jaffrepaul/sentry-academy-backend/internal/handlers"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/server"
	"github.com/jaffrepaul/sentry-academy-backend/internal/services"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

func newTestRouter(t *testing.T) (*gin.Engine, repos.GenerationRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	cat, err := catalog.Load(log)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	progressRepo := repos.NewProgressRepo(repos.NewMemoryKV(), log)
	genRepo := repos.NewGenerationRepo(log)
	hub := events.NewHub(log)

	recSvc := services.NewRecommendationService(log, cat)
	progressSvc := services.NewProgressService(log, cat, progressRepo, recSvc)
	researchSvc, err := services.NewResearchService(log, genRepo)
	if err != nil {
		t.Fatalf("research service: %v", err)
	}
	genSvc := services.NewGenerationService(log, cat, genRepo, researchSvc,
		services.NewTemplateMatcher(log), services.NewTemplateAIClient(log), hub, time.Hour)
	t.Cleanup(genSvc.Shutdown)
	validator := services.NewValidatorService(log, 0)

	router := server.NewRouter(server.RouterConfig{
		CatalogHandler:        handlers.NewCatalogHandler(log, cat),
		ProgressHandler:       handlers.NewProgressHandler(log, progressSvc),
		RecommendationHandler: handlers.NewRecommendationHandler(log, recSvc, progressSvc),
		GenerationHandler:     handlers.NewGenerationHandler(log, genSvc, researchSvc, genRepo, hub),
		CourseHandler:         handlers.NewCourseHandler(log, genSvc, validator, genRepo),
		WorkflowHandler:       handlers.NewWorkflowHandler(log, genRepo),
		BulkHandler:           handlers.NewBulkHandler(log, genSvc, genRepo),
	})
	return router, genRepo
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthcheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/healthcheck", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestListRoles(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/roles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Roles []struct {
			ID string `json:"id"`
		} `json:"roles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Roles) != 6 {
		t.Fatalf("roles = %d, want 6", len(resp.Roles))
	}
}

func TestRoleNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/roles/warlock", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProgressFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	// Without a role the recommendation is null.
	w := do(t, router, http.MethodGet, "/api/recommendations/next-content", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"recommendation":null`) {
		t.Fatalf("body = %s, want null recommendation", w.Body.String())
	}

	if w = do(t, router, http.MethodPut, "/api/progress/role", `{"role_id":"warlock"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid role status = %d", w.Code)
	}
	if w = do(t, router, http.MethodPut, "/api/progress/role", `{"role_id":"backend"}`); w.Code != http.StatusOK {
		t.Fatalf("set role status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/recommendations/next-content", "")
	var resp struct {
		Recommendation *struct {
			ModuleID string `json:"module_id"`
			Priority int    `json:"priority"`
		} `json:"recommendation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Recommendation == nil || resp.Recommendation.Priority != 10 {
		t.Fatalf("recommendation = %+v", resp.Recommendation)
	}

	if w = do(t, router, http.MethodPost, "/api/progress/modules/"+resp.Recommendation.ModuleID+"/complete", ""); w.Code != http.StatusOK {
		t.Fatalf("complete status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), resp.Recommendation.ModuleID) {
		t.Fatalf("completed module missing from body: %s", w.Body.String())
	}

	if w = do(t, router, http.MethodDelete, "/api/progress", ""); w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
}

func TestPersonalizedContentParams(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := do(t, router, http.MethodGet, "/api/content/personalized", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing params status = %d", w.Code)
	}
	w := do(t, router, http.MethodGet, "/api/content/personalized?module_id=error-tracking&role_id=backend", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodGet, "/api/content/personalized?module_id=nope&role_id=backend", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown pair status = %d", w.Code)
	}
}

func TestStartGenerationRejectsBadInput(t *testing.T) {
	router, genRepo := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/generation", `{"keywords":[],"target_roles":["backend"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if n := len(genRepo.ListGenerationRequests()); n != 0 {
		t.Fatalf("requests = %d, want 0 after rejected input", n)
	}
}

func TestStartGenerationAccepted(t *testing.T) {
	router, genRepo := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/generation", `{"keywords":["profiling"],"target_roles":["backend"]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RequestID == "" {
		t.Fatal("missing request id")
	}

	if w := do(t, router, http.MethodGet, "/api/generation/"+resp.RequestID+"/progress", ""); w.Code != http.StatusOK {
		t.Fatalf("progress status = %d", w.Code)
	}
	if n := len(genRepo.ListGenerationRequests()); n != 1 {
		t.Fatalf("requests = %d, want 1", n)
	}

	// The scheduler delay in this test harness is long; cancel succeeds.
	if w := do(t, router, http.MethodDelete, "/api/generation/"+resp.RequestID, ""); w.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/api/generation/"+resp.RequestID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second cancel status = %d", w.Code)
	}
}

func TestCourseEndpointsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := do(t, router, http.MethodGet, "/api/courses/ghost", ""); w.Code != http.StatusNotFound {
		t.Fatalf("get status = %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/api/courses/ghost", ""); w.Code != http.StatusNotFound {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := do(t, router, http.MethodPatch, "/api/courses/ghost", `{"title":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("patch status = %d", w.Code)
	}
}

func TestBulkRejectsBadRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := do(t, router, http.MethodPost, "/api/bulk", `{"type":"explode","course_ids":["c1"]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown type status = %d", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/bulk", `{"type":"approve","course_ids":[]}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty ids status = %d", w.Code)
	}
}

func TestWorkflowReviewFlow(t *testing.T) {
	router, genRepo := newTestRouter(t)
	genRepo.AddApprovalWorkflow(types.ApprovalWorkflow{ID: "w1", CourseID: "c1", Status: types.WorkflowStatusPending})

	if w := do(t, router, http.MethodPatch, "/api/workflows/ghost", `{"assigned_reviewer":"dana"}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown workflow status = %d", w.Code)
	}
	if w := do(t, router, http.MethodPatch, "/api/workflows/w1", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty update status = %d", w.Code)
	}

	// Assigning a reviewer moves the workflow into review.
	w := do(t, router, http.MethodPatch, "/api/workflows/w1", `{"assigned_reviewer":"dana"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("assign status = %d, body %s", w.Code, w.Body.String())
	}
	wf, _ := genRepo.GetApprovalWorkflow("w1")
	if wf.Status != types.WorkflowStatusInReview {
		t.Fatalf("status = %s, want in-review", wf.Status)
	}
	if wf.AssignedReviewer != "dana" {
		t.Fatalf("assigned reviewer = %q", wf.AssignedReviewer)
	}

	if w = do(t, router, http.MethodPatch, "/api/workflows/w1",
		`{"comment":{"author":"dana","comment":"tighten module two"}}`); w.Code != http.StatusOK {
		t.Fatalf("comment status = %d, body %s", w.Code, w.Body.String())
	}
	wf, _ = genRepo.GetApprovalWorkflow("w1")
	if len(wf.ReviewComments) != 1 || wf.ReviewComments[0].Resolved {
		t.Fatalf("comments = %+v, want one unresolved", wf.ReviewComments)
	}

	body := `{"resolve_comment_ids":["` + wf.ReviewComments[0].ID + `"]}`
	if w = do(t, router, http.MethodPatch, "/api/workflows/w1", body); w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d, body %s", w.Code, w.Body.String())
	}
	wf, _ = genRepo.GetApprovalWorkflow("w1")
	if !wf.ReviewComments[0].Resolved {
		t.Fatal("comment should be resolved")
	}
	if wf.Status != types.WorkflowStatusInReview {
		t.Fatalf("status = %s, resolving a comment must not change it", wf.Status)
	}
}

func TestGenerationSettingsRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPut, "/api/generation/settings",
		`{"auto_approve_threshold":0.95,"require_human_review":true,"max_modules_per_course":5,"default_duration":"90 minutes"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/generation/settings", "")
	if !strings.Contains(w.Body.String(), `"max_modules_per_course":5`) {
		t.Fatalf("settings body = %s", w.Body.String())
	}
}
