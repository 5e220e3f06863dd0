package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/devxpawan/smart-spend-sub002/internal/config"
	"github.com/devxpawan/smart-spend-sub002/internal/handlers"
	"github.com/devxpawan/smart-spend-sub002/internal/logger"
	"github.com/devxpawan/smart-spend-sub002/internal/middleware"
	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
	"github.com/devxpawan/smart-spend-sub002/internal/scheduler"
	"github.com/devxpawan/smart-spend-sub002/internal/services"
	"github.com/devxpawan/smart-spend-sub002/internal/validator"
)

// testApp holds the full scheduler stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Scheduler *scheduler.Scheduler
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Transaction{},
		&models.Goal{},
		&models.GoalContribution{},
		&models.Achievement{},
		&models.Notification{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates the full scheduler stack, with every job registered the
// way the entrypoint registers it, backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services; mail stays disabled, integration tests only assert the
	// in-app notification feed.
	mailService := services.NewMailService(&config.Config{})
	notificationService := services.NewNotificationService(db)
	achievementService := services.NewAchievementService(db, notificationService)
	recurringService := services.NewRecurringService(db, notificationService)
	contributionService := services.NewGoalContributionService(db, notificationService, achievementService, mailService)
	lifecycleService := services.NewGoalLifecycleService(db, notificationService, mailService)

	sched := scheduler.New(time.UTC, time.Minute)
	jobs := []struct {
		name string
		spec string
		fn   scheduler.JobFunc
	}{
		{"recurring-transactions", "0 0 * * *",
			func(ctx context.Context, now time.Time) error {
				_, err := recurringService.ProcessDue(ctx, now)
				return err
			}},
		{"goal-lifecycle", "0 9 * * *",
			func(ctx context.Context, now time.Time) error {
				_, err := lifecycleService.NotifyLifecycle(ctx, now)
				return err
			}},
		{"goal-contributions-daily", "0 0 * * *",
			contributionJob(contributionService, recurrence.FrequencyDaily)},
		{"goal-contributions-weekly", "0 0 * * 0",
			contributionJob(contributionService, recurrence.FrequencyWeekly)},
		{"goal-contributions-monthly", "0 0 1 * *",
			contributionJob(contributionService, recurrence.FrequencyMonthly)},
	}
	for _, job := range jobs {
		if err := sched.Register(job.name, job.spec, job.fn); err != nil {
			t.Fatalf("failed to register job %q: %v", job.name, err)
		}
	}

	// Handlers
	jobHandler := handlers.NewJobHandler(sched)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.GET("/jobs", jobHandler.ListJobs)
	v1.POST("/jobs/:name/run", jobHandler.TriggerJob)
	v1.GET("/notifications", notificationHandler.ListNotifications)
	v1.POST("/notifications", notificationHandler.CreateNotification)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)

	return &testApp{DB: db, Router: router, Scheduler: sched}
}

func contributionJob(svc services.GoalContributionServicer, frequency recurrence.Frequency) scheduler.JobFunc {
	return func(ctx context.Context, now time.Time) error {
		_, err := svc.ProcessBucket(ctx, frequency, now)
		return err
	}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// seedUser creates an active, verified user.
func (app *testApp) seedUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Email:              fmt.Sprintf("user%d@test.com", dbCounter.Add(1)),
		FirstName:          "Test",
		IsActive:           true,
		IsVerified:         true,
		EmailNotifications: true,
	}
	if err := app.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
