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

// milestones are the completed-goal counts that earn a badge. Ordered
// descending so the scan awards only the highest threshold reached.
var milestones = []int64{10, 5, 3}

// goalContributionService deposits the periodic amount into every goal
// with an active plan in the given frequency bucket.
type goalContributionService struct {
	db            *gorm.DB
	notifications NotificationServicer
	achievements  AchievementServicer
	mail          MailServicer
	log           *zap.SugaredLogger
}

// NewGoalContributionService creates a new GoalContributionServicer.
func NewGoalContributionService(db *gorm.DB, notifications NotificationServicer, achievements AchievementServicer, mail MailServicer) GoalContributionServicer {
	return &goalContributionService{
		db:            db,
		notifications: notifications,
		achievements:  achievements,
		mail:          mail,
		log:           logger.Named("contributions"),
	}
}

// ProcessBucket deposits into every eligible goal of the bucket. Only
// goals owned by active, verified users participate. A failing goal is
// skipped; the rest of the batch continues.
func (s *goalContributionService) ProcessBucket(ctx context.Context, frequency recurrence.Frequency, now time.Time) (RunReport, error) {
	if !frequency.Valid() {
		return RunReport{}, apperrors.ErrInvalidFrequency
	}

	eligibleOwners := s.db.Model(&models.User{}).
		Select("id").
		Where("is_active = ? AND is_verified = ?", true, true)

	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("contribution > 0 AND contribution_frequency = ?", frequency).
		Where("saved_amount < target_amount").
		Where("user_id IN (?)", eligibleOwners).
		Find(&goals).Error
	if err != nil {
		return RunReport{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := RunReport{Scanned: len(goals)}
	for i := range goals {
		if ctx.Err() != nil {
			s.log.Warnw("run cancelled, leaving remaining goals for the next run",
				"remaining", len(goals)-i)
			break
		}

		goal := &goals[i]
		if err := s.contribute(ctx, goal, frequency, now); err != nil {
			report.Failed++
			s.log.Errorw("failed to process goal contribution",
				"goal_id", goal.ID,
				"user_id", goal.UserID,
				"error", err,
			)
			s.reportFailure(goal)
			continue
		}
		report.Processed++
	}

	s.log.Infow("goal contribution run complete",
		"frequency", frequency,
		"scanned", report.Scanned,
		"processed", report.Processed,
		"failed", report.Failed,
	)
	return report, nil
}

// contribute deposits the clamped amount, then fires the best-effort
// side effects. The deposit commits first and stands even if every
// notification, email, and achievement call after it fails.
func (s *goalContributionService) contribute(ctx context.Context, goal *models.Goal, frequency recurrence.Frequency, now time.Time) error {
	amount := goal.Contribution
	if remaining := goal.Remaining(); amount > remaining {
		amount = remaining
	}
	if amount <= 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deposit := &models.GoalContribution{
			GoalID:      goal.ID,
			Amount:      amount,
			Date:        now,
			Description: frequency.Label() + " automatic contribution",
		}
		if err := tx.Create(deposit).Error; err != nil {
			return err
		}
		goal.SavedAmount += amount
		return tx.Model(&models.Goal{}).Where("id = ?", goal.ID).
			Update("saved_amount", goal.SavedAmount).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notifyProgress(goal, amount)

	if goal.Completed() {
		s.handleCompletion(goal)
	}
	return nil
}

// notifyProgress emits the in-app notification and, when the owner opted
// in, an email. Both are fire-and-forget.
func (s *goalContributionService) notifyProgress(goal *models.Goal, amount int64) {
	title := "Automatic contribution deposited"
	message := fmt.Sprintf("%s was added to %q (%s of %s saved).",
		formatAmount(amount), goal.Name,
		formatAmount(goal.SavedAmount), formatAmount(goal.TargetAmount))
	if goal.Completed() {
		title = "Goal completed"
		message = fmt.Sprintf("%s was added to %q. You reached your target of %s!",
			formatAmount(amount), goal.Name, formatAmount(goal.TargetAmount))
	}

	severity := models.SeverityInfo
	if goal.Completed() {
		severity = models.SeveritySuccess
	}
	if _, err := s.notifications.NotifyRef(goal.UserID, title, message, severity, "goal", goal.ID); err != nil {
		s.log.Warnw("failed to notify contribution",
			"goal_id", goal.ID,
			"user_id", goal.UserID,
			"error", err,
		)
	}

	if s.mail.Enabled() && goal.User.EmailNotifications && goal.User.Email != "" {
		if err := s.mail.Send(goal.User.Email, title, message, ""); err != nil {
			s.log.Warnw("failed to email contribution notice",
				"goal_id", goal.ID,
				"user_id", goal.UserID,
				"error", err,
			)
		}
	}
}

// handleCompletion awards the completion badge and at most one milestone
// badge, the highest threshold the user's completed-goal count has reached.
func (s *goalContributionService) handleCompletion(goal *models.Goal) {
	count, err := s.achievements.CompletedGoalCount(goal.UserID)
	if err != nil {
		s.log.Errorw("failed to count completed goals",
			"user_id", goal.UserID,
			"error", err,
		)
		return
	}

	if _, _, err := s.achievements.Award(
		goal.UserID,
		models.AchievementGoalCompleted,
		fmt.Sprintf("Goal completed: %s", goal.Name),
		count,
	); err != nil {
		s.log.Errorw("failed to award completion achievement",
			"goal_id", goal.ID,
			"user_id", goal.UserID,
			"error", err,
		)
	}

	for _, threshold := range milestones {
		if count < threshold {
			continue
		}
		if _, _, err := s.achievements.Award(
			goal.UserID,
			models.AchievementGoalMilestone,
			fmt.Sprintf("%d goals completed", threshold),
			threshold,
		); err != nil {
			s.log.Errorw("failed to award milestone achievement",
				"user_id", goal.UserID,
				"threshold", threshold,
				"error", err,
			)
		}
		break
	}
}

func (s *goalContributionService) reportFailure(goal *models.Goal) {
	message := fmt.Sprintf("The automatic contribution to %q could not be deposited and was skipped. It will be retried on the next run.", goal.Name)
	if _, err := s.notifications.NotifyRef(
		goal.UserID,
		"Automatic contribution failed",
		message,
		models.SeverityError,
		"goal", goal.ID,
	); err != nil {
		s.log.Warnw("failed to deliver failure notification",
			"goal_id", goal.ID,
			"user_id", goal.UserID,
			"error", err,
		)
	}
}
