package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/jaffrepaul/sentry-academy-backend/internal/catalog"
	"github.com/jaffrepaul/sentry-academy-backend/internal/events"
	"github.com/jaffrepaul/sentry-academy-backend/internal/handlers"
	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/observability"
	"github.com/jaffrepaul/sentry-academy-backend/internal/repos"
	"github.com/jaffrepaul/sentry-academy-backend/internal/server"
	"github.com/jaffrepaul/sentry-academy-backend/internal/services"
	"github.com/jaffrepaul/sentry-academy-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.Init(ctx, log, observability.Config{
		ServiceName: "sentry-academy-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	startDelaySec := utils.GetEnvAsInt("GENERATION_START_DELAY_SECONDS", 2, log)
	validationThreshold := utils.GetEnvAsFloat("VALIDATION_THRESHOLD", services.DefaultValidationThreshold, log)
	corsOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Catalog
	cat, err := catalog.Load(log)
	if err != nil {
		log.Error("Could not load learning catalog", "error", err)
		os.Exit(1)
	}

	// Storage
	var kv repos.KV
	kv, err = repos.NewRedisKV(log)
	if err != nil {
		log.Warn("Redis init failed, using in-memory progress store", "error", err)
		kv = repos.NewMemoryKV()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	progressRepo := repos.NewProgressRepo(kv, log)
	genRepo := repos.NewGenerationRepo(log)

	// Events
	hub := events.NewHub(log)

	// Services
	log.Info("Setting up Services from main...")
	recSvc := services.NewRecommendationService(log, cat)
	progressSvc := services.NewProgressService(log, cat, progressRepo, recSvc)
	researchSvc, err := services.NewResearchService(log, genRepo)
	if err != nil {
		log.Error("Could not init ResearchService", "error", err)
		os.Exit(1)
	}
	matcher := services.NewTemplateMatcher(log)
	aiClient := services.NewTemplateAIClient(log)
	genSvc := services.NewGenerationService(log, cat, genRepo, researchSvc, matcher, aiClient, hub, time.Duration(startDelaySec)*time.Second)
	validator := services.NewValidatorService(log, validationThreshold)

	// Handlers
	log.Info("Setting up handlers from main...")
	catalogHandler := handlers.NewCatalogHandler(log, cat)
	progressHandler := handlers.NewProgressHandler(log, progressSvc)
	recHandler := handlers.NewRecommendationHandler(log, recSvc, progressSvc)
	genHandler := handlers.NewGenerationHandler(log, genSvc, researchSvc, genRepo, hub)
	courseHandler := handlers.NewCourseHandler(log, genSvc, validator, genRepo)
	workflowHandler := handlers.NewWorkflowHandler(log, genRepo)
	bulkHandler := handlers.NewBulkHandler(log, genSvc, genRepo)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if corsOrigins != "" {
		for _, o := range strings.Split(corsOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:          origins,
		CatalogHandler:        catalogHandler,
		ProgressHandler:       progressHandler,
		RecommendationHandler: recHandler,
		GenerationHandler:     genHandler,
		CourseHandler:         courseHandler,
		WorkflowHandler:       workflowHandler,
		BulkHandler:           bulkHandler,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")
		genSvc.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if otelShutdown != nil {
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
