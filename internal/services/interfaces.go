package services

import (
	"context"
	"time"

	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/pagination"
	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
)

// RunReport summarizes a single scanner run. Failed counts records that
// were skipped after a per-record error; a failure never aborts the rest
// of the batch.
type RunReport struct {
	Scanned   int `json:"scanned"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// NotificationServicer defines the contract for the notification sink.
type NotificationServicer interface {
	Notify(userID, title, message string, severity models.Severity) (*models.Notification, error)
	NotifyRef(userID, title, message string, severity models.Severity, refType, refID string) (*models.Notification, error)
	GetUserNotifications(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	MarkRead(userID, notificationID string) error
}

// AchievementServicer defines the contract for the achievement sink.
type AchievementServicer interface {
	Award(userID string, achType models.AchievementType, title string, value int64) (*models.Achievement, bool, error)
	CompletedGoalCount(userID string) (int64, error)
}

// MailServicer defines the contract for outgoing email. Implementations
// are best-effort delivery channels: callers log failures and move on.
type MailServicer interface {
	Enabled() bool
	Send(to, subject, textBody, htmlBody string) error
}

// RecurringServicer defines the contract for the recurring transaction processor.
type RecurringServicer interface {
	ProcessDue(ctx context.Context, today time.Time) (RunReport, error)
}

// GoalContributionServicer defines the contract for automatic goal contributions.
type GoalContributionServicer interface {
	ProcessBucket(ctx context.Context, frequency recurrence.Frequency, now time.Time) (RunReport, error)
}

// GoalLifecycleServicer defines the contract for goal deadline notifications.
type GoalLifecycleServicer interface {
	NotifyLifecycle(ctx context.Context, today time.Time) (RunReport, error)
}
