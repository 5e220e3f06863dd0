package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/devxpawan/smart-spend-sub002/internal/errors"
	"github.com/devxpawan/smart-spend-sub002/internal/logger"
	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/pagination"
)

// notificationService persists user notifications. It is the sink the
// scanners report into; callers treat its errors as best-effort.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Notify persists a notification for the user.
func (s *notificationService) Notify(userID, title, message string, severity models.Severity) (*models.Notification, error) {
	return s.NotifyRef(userID, title, message, severity, "", "")
}

// NotifyRef persists a notification that references the record it is about.
func (s *notificationService) NotifyRef(userID, title, message string, severity models.Severity, refType, refID string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Severity: severity,
		RefType:  refType,
		RefID:    refID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("notification created",
		"user_id", userID,
		"severity", severity,
		"title", title,
	)
	return notification, nil
}

// GetUserNotifications returns the user's notifications, newest first.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// MarkRead marks a notification as read if it belongs to the user.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if notification.Read {
		return nil
	}

	if err := s.db.Model(&notification).Update("read", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
