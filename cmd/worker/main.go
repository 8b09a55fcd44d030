package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/pulse-hr/pulse/internal/app"
	"github.com/pulse-hr/pulse/internal/catalog"
	"github.com/pulse-hr/pulse/internal/platform/cache"
	"github.com/pulse-hr/pulse/internal/platform/kv"
	"github.com/pulse-hr/pulse/internal/reports"
	"github.com/pulse-hr/pulse/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store := kv.NewRedisStore(redisClient, "pulse")
	reportsStore := reports.NewStore(store)
	catalogService := catalog.NewService(catalog.NewStore(store))
	reportsService := reports.NewService(reportsStore, catalogService, cfg.OrgID)

	deliverJob := &jobs.SubmissionDeliverJob{Recorder: reportsStore, Logger: logger}
	warmupJob := &jobs.ReportWarmupJob{Reports: reportsService, Logger: logger}

	warmupTask, err := jobs.NewReportWarmupTask(cfg.OrgID)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSubmissionDeliver, Handler: deliverJob.Handle},
			{Type: jobs.TaskTypeReportWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 5 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
