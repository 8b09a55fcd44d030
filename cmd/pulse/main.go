package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/pulse-hr/pulse/internal/access"
	"github.com/pulse-hr/pulse/internal/app"
	"github.com/pulse-hr/pulse/internal/auth"
	"github.com/pulse-hr/pulse/internal/catalog"
	"github.com/pulse-hr/pulse/internal/directory"
	"github.com/pulse-hr/pulse/internal/platform/cache"
	"github.com/pulse-hr/pulse/internal/platform/kv"
	"github.com/pulse-hr/pulse/internal/reports"
	"github.com/pulse-hr/pulse/internal/shared"
	"github.com/pulse-hr/pulse/internal/survey"
	"github.com/pulse-hr/pulse/internal/view"
	"github.com/pulse-hr/pulse/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	sessionManager := shared.NewSessionManager(redisClient, "pulse_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	store := kv.NewRedisStore(redisClient, "pulse")

	authRepo := auth.NewRepository(store)
	authBackend := auth.NewDirectoryBackend(authRepo)
	authService := auth.NewService(authBackend, cfg.AllowAuthFallback(), cfg.OrgID, logger)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	catalogStore := catalog.NewStore(store)
	catalogService := catalog.NewService(catalogStore)

	directoryService := directory.NewService(store)

	if cfg.SeedData && !cfg.IsProduction() {
		if err := auth.Seed(ctx, authRepo, cfg.OrgID, auth.DefaultSeedAccounts()); err != nil {
			logger.Warn("seed accounts", slog.Any("error", err))
		}
		if err := catalog.Seed(ctx, catalogStore, cfg.OrgID); err != nil {
			logger.Warn("seed catalog", slog.Any("error", err))
		}
		if err := directory.Seed(ctx, directoryService, cfg.OrgID); err != nil {
			logger.Warn("seed directory", slog.Any("error", err))
		}
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	submissionSink := jobs.NewSubmissionSink(asynqClient, cfg.OrgID)
	surveyEngine := survey.NewEngine(catalogService, submissionSink)
	surveyHandler := survey.NewHandler(logger, surveyEngine, catalogService, templates, csrfManager, cfg.OrgID)

	guard := access.Guard{Logger: logger}
	catalogHandler := catalog.NewHandler(logger, catalogService, templates, csrfManager, guard)
	directoryHandler := directory.NewHandler(logger, directoryService, templates, csrfManager, guard)

	reportsStore := reports.NewStore(store)
	reportsService := reports.NewService(reportsStore, catalogService, cfg.OrgID)
	reportsHandler := reports.NewHandler(logger, reportsService, templates, csrfManager)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		Guard:            guard,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		SurveyHandler:    surveyHandler,
		DirectoryHandler: directoryHandler,
		ReportsHandler:   reportsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
