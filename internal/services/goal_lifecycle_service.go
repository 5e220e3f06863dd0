package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/devxpawan/smart-spend-sub002/internal/errors"
	"github.com/devxpawan/smart-spend-sub002/internal/logger"
	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/recurrence"
)

// goalLifecycleService emits the "deadline tomorrow" and "achieved or
// expired" notices. Each transition is stamped on the goal once it is
// delivered, so re-runs cannot duplicate it and a missed run is caught
// up by the next one.
type goalLifecycleService struct {
	db            *gorm.DB
	notifications NotificationServicer
	mail          MailServicer
	log           *zap.SugaredLogger
}

// NewGoalLifecycleService creates a new GoalLifecycleServicer.
func NewGoalLifecycleService(db *gorm.DB, notifications NotificationServicer, mail MailServicer) GoalLifecycleServicer {
	return &goalLifecycleService{
		db:            db,
		notifications: notifications,
		mail:          mail,
		log:           logger.Named("lifecycle"),
	}
}

// NotifyLifecycle scans for goals whose target date is tomorrow and goals
// whose target date has passed, delivering each notice exactly once.
func (s *goalLifecycleService) NotifyLifecycle(ctx context.Context, today time.Time) (RunReport, error) {
	today = recurrence.Midnight(today)
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)

	var report RunReport

	var expiring []models.Goal
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("target_date >= ? AND target_date < ?", tomorrow, dayAfter).
		Where("expiry_notified_at IS NULL").
		Find(&expiring).Error
	if err != nil {
		return report, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report.Scanned += len(expiring)
	for i := range expiring {
		if ctx.Err() != nil {
			break
		}
		if err := s.notifyExpiring(&expiring[i]); err != nil {
			report.Failed++
			s.log.Errorw("failed to deliver expiry notice",
				"goal_id", expiring[i].ID,
				"error", err,
			)
			continue
		}
		report.Processed++
	}

	var past []models.Goal
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("target_date < ?", today).
		Where("outcome_notified_at IS NULL").
		Find(&past).Error
	if err != nil {
		return report, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report.Scanned += len(past)
	for i := range past {
		if ctx.Err() != nil {
			break
		}
		if err := s.notifyOutcome(&past[i]); err != nil {
			report.Failed++
			s.log.Errorw("failed to deliver outcome notice",
				"goal_id", past[i].ID,
				"error", err,
			)
			continue
		}
		report.Processed++
	}

	s.log.Infow("goal lifecycle run complete",
		"scanned", report.Scanned,
		"processed", report.Processed,
		"failed", report.Failed,
	)
	return report, nil
}

// notifyExpiring warns the owner one day before the target date and
// stamps the goal. The stamp is only written after the notification
// persists, so a failed delivery is retried on the next run.
func (s *goalLifecycleService) notifyExpiring(goal *models.Goal) error {
	title := "Goal deadline tomorrow"
	message := fmt.Sprintf("Your goal %q reaches its target date tomorrow. You have saved %s of %s.",
		goal.Name, formatAmount(goal.SavedAmount), formatAmount(goal.TargetAmount))

	if _, err := s.notifications.NotifyRef(goal.UserID, title, message, models.SeverityWarning, "goal", goal.ID); err != nil {
		return err
	}
	s.sendMail(goal, title, message)

	return s.stamp(goal, "expiry_notified_at")
}

// notifyOutcome reports whether a past-due goal was achieved or expired,
// then stamps the goal.
func (s *goalLifecycleService) notifyOutcome(goal *models.Goal) error {
	var (
		title    string
		message  string
		severity models.Severity
	)
	if goal.Completed() {
		title = "Goal achieved"
		message = fmt.Sprintf("Congratulations! You reached your goal %q with %s saved.",
			goal.Name, formatAmount(goal.SavedAmount))
		severity = models.SeveritySuccess
	} else {
		title = "Goal expired"
		message = fmt.Sprintf("Your goal %q passed its target date with %s of %s saved.",
			goal.Name, formatAmount(goal.SavedAmount), formatAmount(goal.TargetAmount))
		severity = models.SeverityInfo
	}

	if _, err := s.notifications.NotifyRef(goal.UserID, title, message, severity, "goal", goal.ID); err != nil {
		return err
	}
	s.sendMail(goal, title, message)

	return s.stamp(goal, "outcome_notified_at")
}

// sendMail dispatches the same content over email, best-effort.
func (s *goalLifecycleService) sendMail(goal *models.Goal, subject, body string) {
	if !s.mail.Enabled() || !goal.User.EmailNotifications || goal.User.Email == "" {
		return
	}
	if err := s.mail.Send(goal.User.Email, subject, body, ""); err != nil {
		s.log.Warnw("failed to email lifecycle notice",
			"goal_id", goal.ID,
			"user_id", goal.UserID,
			"error", err,
		)
	}
}

func (s *goalLifecycleService) stamp(goal *models.Goal, column string) error {
	now := time.Now()
	err := s.db.Model(&models.Goal{}).Where("id = ?", goal.ID).Update(column, now).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
