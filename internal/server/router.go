package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jaffrepaul/sentry-academy-backend/internal/handlers"
)

type RouterConfig struct {
	AllowOrigins          []string
	CatalogHandler        *handlers.CatalogHandler
	ProgressHandler       *handlers.ProgressHandler
	RecommendationHandler *handlers.RecommendationHandler
	GenerationHandler     *handlers.GenerationHandler
	CourseHandler         *handlers.CourseHandler
	WorkflowHandler       *handlers.WorkflowHandler
	BulkHandler           *handlers.BulkHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Catalog
		api.GET("/roles", cfg.CatalogHandler.ListRoles)
		api.GET("/roles/:id", cfg.CatalogHandler.GetRole)
		api.GET("/roles/:id/path", cfg.CatalogHandler.GetLearningPath)

		// Progress
		api.GET("/progress", cfg.ProgressHandler.Get)
		api.PUT("/progress/role", cfg.ProgressHandler.SetRole)
		api.POST("/progress/modules/:id/complete", cfg.ProgressHandler.CompleteModule)
		api.POST("/progress/onboarding/seen", cfg.ProgressHandler.MarkOnboardingSeen)
		api.DELETE("/progress", cfg.ProgressHandler.Reset)

		// Recommendations
		api.GET("/recommendations/next-content", cfg.RecommendationHandler.NextContent)
		api.GET("/content/personalized", cfg.RecommendationHandler.PersonalizedContent)

		// Generation pipeline
		api.POST("/generation", cfg.GenerationHandler.Start)
		api.GET("/generation", cfg.GenerationHandler.ListRequests)
		api.GET("/generation/sources", cfg.GenerationHandler.ListSources)
		api.GET("/generation/settings", cfg.GenerationHandler.GetSettings)
		api.PUT("/generation/settings", cfg.GenerationHandler.UpdateSettings)
		api.GET("/generation/stats", cfg.GenerationHandler.GetStats)
		api.DELETE("/generation/:id", cfg.GenerationHandler.Cancel)
		api.GET("/generation/:id/progress", cfg.GenerationHandler.GetProgress)
		api.GET("/generation/:id/stream", cfg.GenerationHandler.StreamProgress)

		// Generated courses
		api.GET("/courses", cfg.CourseHandler.List)
		api.POST("/courses/merged", cfg.CourseHandler.Merged)
		api.GET("/courses/:id", cfg.CourseHandler.Get)
		api.PATCH("/courses/:id", cfg.CourseHandler.Update)
		api.DELETE("/courses/:id", cfg.CourseHandler.Delete)
		api.POST("/courses/:id/validate", cfg.CourseHandler.Validate)
		api.POST("/courses/:id/approve", cfg.CourseHandler.Approve)
		api.POST("/courses/:id/reject", cfg.CourseHandler.Reject)
		api.GET("/courses/:id/workflow", cfg.WorkflowHandler.GetForCourse)

		// Review workflows and bulk operations
		api.GET("/workflows", cfg.WorkflowHandler.List)
		api.GET("/workflows/:id", cfg.WorkflowHandler.Get)
		api.PATCH("/workflows/:id", cfg.WorkflowHandler.Update)
		api.POST("/bulk", cfg.BulkHandler.Process)
		api.GET("/bulk", cfg.BulkHandler.List)
		api.GET("/bulk/:id", cfg.BulkHandler.Get)
	}

	return router
}
