package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/timetablehub/scheduler-api/api/swagger"
	"github.com/timetablehub/scheduler-api/internal/core"
	internalhandler "github.com/timetablehub/scheduler-api/internal/handler"
	"github.com/timetablehub/scheduler-api/internal/middleware"
	"github.com/timetablehub/scheduler-api/internal/repository"
	"github.com/timetablehub/scheduler-api/internal/service"
	"github.com/timetablehub/scheduler-api/pkg/cache"
	"github.com/timetablehub/scheduler-api/pkg/config"
	"github.com/timetablehub/scheduler-api/pkg/database"
	"github.com/timetablehub/scheduler-api/pkg/export"
	"github.com/timetablehub/scheduler-api/pkg/jobs"
	"github.com/timetablehub/scheduler-api/pkg/logger"
	corsmiddleware "github.com/timetablehub/scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/timetablehub/scheduler-api/pkg/middleware/requestid"
	"github.com/timetablehub/scheduler-api/pkg/storage"
)

// @title Timetable Scheduler API
// @version 0.1.0
// @description Genetic-algorithm timetable generation service
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("result cache disabled", "error", err)
	} else {
		defer redisClient.Close()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	datasetRepo := repository.NewDatasetRepository(db)
	timetableJobRepo := repository.NewTimetableJobRepository(db)
	timetableResultRepo := repository.NewTimetableResultRepository(db)

	datasetSvc := service.NewDatasetService(datasetRepo)
	datasetHandler := internalhandler.NewDatasetHandler(datasetSvc)

	engineDefaults := core.Config{
		PopulationSize:   cfg.Scheduler.PopulationSize,
		Generations:      cfg.Scheduler.Generations,
		MutationRate:     cfg.Scheduler.MutationRate,
		TournamentSize:   cfg.Scheduler.TournamentSize,
		LessonsPerDay:    cfg.Scheduler.LessonsPerDay,
		MinLessonsPerDay: cfg.Scheduler.MinLessonsPerDay,
		PFill:            cfg.Scheduler.PFill,
		PCompactMutation: cfg.Scheduler.PCompactMutation,
		Parallel:         true,
		Workers:          cfg.Jobs.Workers,
	}

	timetableWorker := service.NewTimetableJobWorker(timetableJobRepo, datasetRepo, timetableResultRepo, engineDefaults, logr)

	queueCfg := jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	}
	queueCtx, cancel := context.WithCancel(context.Background())
	timetableQueue := jobs.NewQueue("timetable-jobs", timetableWorker.Handle, queueCfg)
	timetableQueue.Start(queueCtx)
	defer func() {
		cancel()
		timetableQueue.Stop()
	}()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	resultCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.ResultCacheTTL, logr, redisClient != nil)

	timetableJobSvc := service.NewTimetableJobService(timetableJobRepo, datasetRepo, timetableResultRepo, resultCache, timetableQueue, logr, service.TimetableJobServiceConfig{
		Defaults: engineDefaults,
	})
	timetableJobSvc.RecoverPendingJobs(queueCtx)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewTimetableExportService(export.NewCSVExporter(), export.NewPDFExporter(), exportStore, exportSigner, cfg.APIPrefix)
	timetableJobHandler := internalhandler.NewTimetableJobHandler(timetableJobSvc, exportSvc)

	datasetsGroup := api.Group("/datasets")
	datasetsGroup.POST("", datasetHandler.Create)
	datasetsGroup.GET("/:id", datasetHandler.Get)

	jobsGroup := api.Group("/timetable-jobs")
	jobsGroup.POST("", timetableJobHandler.Create)
	jobsGroup.GET("/:id", timetableJobHandler.Status)
	jobsGroup.GET("/:id/result", timetableJobHandler.Result)
	jobsGroup.GET("/:id/export", timetableJobHandler.Export)

	api.GET("/timetable-exports/:token", timetableJobHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
