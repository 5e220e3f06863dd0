package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/devxpawan/smart-spend-sub002/internal/errors"
	"github.com/devxpawan/smart-spend-sub002/internal/logger"
	"github.com/devxpawan/smart-spend-sub002/internal/models"
)

// achievementService awards badges. Awarding is idempotent over the
// (user, type, value) key: repeated awards return the existing row.
type achievementService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewAchievementService creates a new AchievementServicer.
func NewAchievementService(db *gorm.DB, notifications NotificationServicer) AchievementServicer {
	return &achievementService{db: db, notifications: notifications}
}

// Award records an achievement unless the same (user, type, value) was
// already awarded. alreadyExisted reports which case occurred. A fresh
// award also emits a success notification, best-effort.
func (s *achievementService) Award(userID string, achType models.AchievementType, title string, value int64) (*models.Achievement, bool, error) {
	var existing models.Achievement
	err := s.db.Where("user_id = ? AND type = ? AND value = ?", userID, achType, value).First(&existing).Error
	if err == nil {
		return &existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	achievement := &models.Achievement{
		UserID: userID,
		Type:   achType,
		Title:  title,
		Value:  value,
	}
	if err := s.db.Create(achievement).Error; err != nil {
		// A concurrent award may have hit the unique index first.
		var raced models.Achievement
		if ferr := s.db.Where("user_id = ? AND type = ? AND value = ?", userID, achType, value).First(&raced).Error; ferr == nil {
			return &raced, true, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if _, nerr := s.notifications.NotifyRef(
		userID,
		"Achievement unlocked",
		fmt.Sprintf("You earned the %q badge.", title),
		models.SeveritySuccess,
		"achievement", achievement.ID,
	); nerr != nil {
		logger.Get().Warnw("failed to notify achievement award",
			"user_id", userID,
			"type", achType,
			"error", nerr,
		)
	}

	return achievement, false, nil
}

// CompletedGoalCount returns how many of the user's goals have reached
// their target.
func (s *achievementService) CompletedGoalCount(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Goal{}).
		Where("user_id = ? AND saved_amount >= target_amount", userID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
