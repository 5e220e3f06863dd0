package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devxpawan/smart-spend-sub002/internal/config"
	"github.com/devxpawan/smart-spend-sub002/internal/database"
	"github.com/devxpawan/smart-spend-sub002/internal/handlers"
	"github.com/devxpawan/smart-spend-sub002/internal/logger"
	"github.com/devxpawan/smart-spend-sub002/internal/middleware"
	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
	"github.com/devxpawan/smart-spend-sub002/internal/scheduler"
	"github.com/devxpawan/smart-spend-sub002/internal/services"
	"github.com/devxpawan/smart-spend-sub002/internal/validator"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	loc, err := appConfig.Location()
	if err != nil {
		return fmt.Errorf("failed to resolve job timezone: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	notificationService := services.NewNotificationService(db)
	mailService := services.NewMailService(appConfig)
	achievementService := services.NewAchievementService(db, notificationService)
	recurringService := services.NewRecurringService(db, notificationService)
	contributionService := services.NewGoalContributionService(db, notificationService, achievementService, mailService)
	lifecycleService := services.NewGoalLifecycleService(db, notificationService, mailService)

	// Register jobs; any bad cron spec aborts startup here.
	sched := scheduler.New(loc, appConfig.RunTimeout)
	jobs := []struct {
		name string
		spec string
		fn   scheduler.JobFunc
	}{
		{"recurring-transactions", appConfig.Schedules.RecurringTransactions,
			func(ctx context.Context, now time.Time) error {
				_, err := recurringService.ProcessDue(ctx, now)
				return err
			}},
		{"goal-lifecycle", appConfig.Schedules.GoalLifecycle,
			func(ctx context.Context, now time.Time) error {
				_, err := lifecycleService.NotifyLifecycle(ctx, now)
				return err
			}},
		{"goal-contributions-daily", appConfig.Schedules.ContributionsDaily,
			contributionJob(contributionService, recurrence.FrequencyDaily)},
		{"goal-contributions-weekly", appConfig.Schedules.ContributionsWeekly,
			contributionJob(contributionService, recurrence.FrequencyWeekly)},
		{"goal-contributions-monthly", appConfig.Schedules.ContributionsMonthly,
			contributionJob(contributionService, recurrence.FrequencyMonthly)},
	}
	for _, job := range jobs {
		if err := sched.Register(job.name, job.spec, job.fn); err != nil {
			return fmt.Errorf("failed to register job: %w", err)
		}
	}

	sched.Start()
	defer sched.Stop()

	// Ops HTTP surface
	validator.Register()
	jobHandler := handlers.NewJobHandler(sched)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/jobs", jobHandler.ListJobs)
	v1.POST("/jobs/:name/run", jobHandler.TriggerJob)
	v1.GET("/notifications", notificationHandler.ListNotifications)
	v1.POST("/notifications", notificationHandler.CreateNotification)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)

	server := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting scheduler ops server on port %s", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("ops server failed: %w", err)
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Ops server shutdown error: %v", err)
	}

	// sched.Stop via defer waits for in-flight job runs to finish.
	return nil
}

func contributionJob(svc services.GoalContributionServicer, frequency recurrence.Frequency) scheduler.JobFunc {
	return func(ctx context.Context, now time.Time) error {
		_, err := svc.ProcessBucket(ctx, frequency, now)
		return err
	}
}
