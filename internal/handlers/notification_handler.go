package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/devxpawan/smart-spend-sub002/internal/errors"
	"github.com/devxpawan/smart-spend-sub002/internal/models"
	"github.com/devxpawan/smart-spend-sub002/internal/pagination"
	"github.com/devxpawan/smart-spend-sub002/internal/services"
)

// NotificationHandler exposes the notification feed owned by the sink.
type NotificationHandler struct {
	notifications services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotificationsRequest represents the query parameters for listing notifications.
type ListNotificationsRequest struct {
	pagination.PageRequest
	UserID string `form:"user_id" binding:"required,uuid"`
}

// ListNotifications returns a user's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var req ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.notifications.GetUserNotifications(req.UserID, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateNotificationRequest represents the payload for pushing a manual notification.
type CreateNotificationRequest struct {
	UserID   string          `json:"user_id" binding:"required,uuid"`
	Title    string          `json:"title" binding:"required,min=1,max=255"`
	Message  string          `json:"message" binding:"required"`
	Severity models.Severity `json:"severity" binding:"required,severity"`
}

// CreateNotification pushes an operator-authored notification to a user.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	notification, err := h.notifications.Notify(req.UserID, req.Title, req.Message, req.Severity)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// MarkReadRequest represents the payload for marking a notification read.
type MarkReadRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// MarkRead marks a single notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID := c.Param("id")

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.notifications.MarkRead(req.UserID, notificationID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
