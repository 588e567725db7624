package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/timetable-scheduler/api/swagger"
	internalhandler "github.com/noah-isme/timetable-scheduler/internal/handler"
	internalmiddleware "github.com/noah-isme/timetable-scheduler/internal/middleware"
	"github.com/noah-isme/timetable-scheduler/internal/repository"
	"github.com/noah-isme/timetable-scheduler/internal/scheduler"
	"github.com/noah-isme/timetable-scheduler/internal/service"
	"github.com/noah-isme/timetable-scheduler/pkg/cache"
	"github.com/noah-isme/timetable-scheduler/pkg/config"
	"github.com/noah-isme/timetable-scheduler/pkg/database"
	"github.com/noah-isme/timetable-scheduler/pkg/jobs"
	"github.com/noah-isme/timetable-scheduler/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-scheduler/pkg/middleware/requestid"
)

// @title Timetable Scheduler API
// @version 0.1.0
// @description Hybrid CSP/GA section timetable generator
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	var crossSectionCache *service.CacheService
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("cross-section assignment cache disabled", "error", err)
		crossSectionCache = service.NewCacheService(nil, metricsSvc, cfg.Scheduler.CacheTTL, logr, false)
	} else {
		defer client.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(client, logr)
		crossSectionCache = service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.CacheTTL, logr, true)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(cfg.APIPrefix)

	catalogRepo := repository.NewCatalogRepository(db)
	obligationRepo := repository.NewObligationRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	generationRepo := repository.NewGenerationRepository(db)
	cachedAssignments := repository.NewCachedCrossSectionAssignments(assignmentRepo, crossSectionCache)

	orchestrator := scheduler.New(catalogRepo, obligationRepo, cachedAssignments, cachedAssignments, logr)
	schedulerDefaults := scheduler.Config{
		PopulationSize: cfg.Scheduler.PopulationSize,
		MaxGenerations: cfg.Scheduler.MaxGenerations,
		CrossoverRate:  cfg.Scheduler.CrossoverRate,
		MutationRate:   cfg.Scheduler.MutationRate,
		ElitismCount:   cfg.Scheduler.ElitismCount,
		TournamentSize: cfg.Scheduler.TournamentSize,
	}
	generatorSvc := service.NewScheduleGeneratorService(orchestrator, generationRepo, assignmentRepo, nil, metricsSvc, logr, schedulerDefaults, cfg.Scheduler.RunTimeout)
	scheduleHandler := internalhandler.NewScheduleHandler(generatorSvc)

	sections := api.Group("/sections/:id")
	sections.POST("/generate", scheduleHandler.Generate)
	sections.GET("/schedule", scheduleHandler.SectionSchedule)
	sections.GET("/generations", scheduleHandler.SectionHistory)

	api.GET("/faculty/:id/schedule", scheduleHandler.FacultySchedule)

	batchJobRepo := repository.NewBatchJobRepository(db)
	batchSvc := service.NewBatchScheduleService(batchJobRepo, generatorSvc, nil, logr)
	batchQueue := jobs.NewQueue("batch-schedule", batchSvc.Handle, jobs.QueueConfig{
		Workers: cfg.Scheduler.WorkerConcurrency,
		Logger:  logr,
	})
	batchQueue.Start(context.Background())
	defer batchQueue.Stop()
	batchSvc.SetQueue(batchQueue)
	batchHandler := internalhandler.NewBatchScheduleHandler(batchSvc)

	api.POST("/sections/batch-generate", batchHandler.CreateBatch)
	api.GET("/sections/batch-generate/:id", batchHandler.BatchStatus)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
