package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/makeup-api/api/swagger"
	"github.com/noah-isme/makeup-api/internal/handler"
	"github.com/noah-isme/makeup-api/internal/middleware"
	"github.com/noah-isme/makeup-api/internal/repository"
	"github.com/noah-isme/makeup-api/internal/service"
	"github.com/noah-isme/makeup-api/pkg/cache"
	"github.com/noah-isme/makeup-api/pkg/config"
	"github.com/noah-isme/makeup-api/pkg/database"
	"github.com/noah-isme/makeup-api/pkg/jobs"
	"github.com/noah-isme/makeup-api/pkg/logger"
	"github.com/noah-isme/makeup-api/pkg/mailer"
	corsmiddleware "github.com/noah-isme/makeup-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/makeup-api/pkg/middleware/requestid"
)

// @title Makeup Request API
// @version 1.0.0
// @description Exam makeup request submission and review
// @BasePath /api/v1
// @schemes http https

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, course cache disabled", zap.Error(err))
		redisClient = nil
	}

	notifier, err := mailer.New(cfg.Notifications, logr)
	if err != nil {
		logr.Fatal("failed to init mailer", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	location := cfg.Deadline.Location()

	cacheRepo := repository.NewCacheRepository(redisClient, "makeup:")
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Redis.CourseCacheTTL, logr, cfg.Redis.CourseCache && redisClient != nil)

	courseRepo := repository.NewCourseRepository(db)
	requestRepo := repository.NewMakeupRequestRepository(db)
	extensionRepo := repository.NewExtensionRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	mailingListRepo := repository.NewMailingListRepository(db)

	courseSvc := service.NewCourseService(courseRepo, cacheSvc, cfg.Redis.CourseCacheTTL, logr)
	accountSvc := service.NewAccountService(adminRepo, courseSvc, logr)
	identitySvc := service.NewIdentityService(service.IdentityConfig{Secret: cfg.Session.Secret, Issuer: cfg.Session.Issuer}, accountSvc, logr)
	extensionSvc := service.NewExtensionService(extensionRepo, courseSvc, validate, metrics, logr)
	deadlines := service.NewDeadlineEvaluator(courseSvc, extensionRepo, service.DeadlineConfig{Location: location, LeadDays: cfg.Deadline.LeadDays}, logr)
	mailingListSvc := service.NewMailingListService(mailingListRepo, logr)

	notificationSvc := service.NewNotificationService(notifier, mailingListRepo, cfg.Notifications.TTDEmail, metrics, logr)
	queue := jobs.NewQueue("notifications", notificationSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.Retries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	queue.Start(context.Background())
	notificationSvc.AttachQueue(queue)

	requestSvc := service.NewMakeupRequestService(requestRepo, deadlines, notificationSvc, validate, metrics, location, logr)
	exportSvc := service.NewExportService(requestSvc, location, logr, nil, nil)

	sweeper := service.NewExtensionSweeper(extensionSvc, cfg.Extensions.SweepInterval, logr)
	sweeper.Start(context.Background())

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.Routes{
		APIPrefix:  cfg.APIPrefix,
		EnableDocs: cfg.EnableDocs && cfg.Env != config.EnvProduction,
		CronToken:  cfg.Extensions.CronToken,
		Auth:       identitySvc,
		Requests:   handler.NewMakeupRequestHandler(requestSvc, exportSvc),
		Extensions: handler.NewExtensionHandler(extensionSvc),
		Accounts:   handler.NewAccountHandler(mailingListSvc),
		Courses:    handler.NewCourseHandler(courseSvc, deadlines),
		Metrics:    handler.NewMetricsHandler(metrics, checks, logr),
	}.Register(r)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
	sweeper.Stop()
	queue.Stop()
	if err := notifier.Close(); err != nil {
		logr.Warn("mailer close failed", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logr.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		logr.Warn("database close failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
