package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"airwatch/internal/db"
	"airwatch/internal/models"
)

const defaultPageSize = 20

func pageParams(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) GetUserNotifications(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	list, err := h.notify.Notifications(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Errorf("Failed to get notifications for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	count, err := h.notify.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Failed to count unread for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	notificationID, err := strconv.ParseInt(c.Param("notificationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if err := h.notify.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		h.logger.Errorf("Failed to mark notification %d read: %v", notificationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	n, err := h.notify.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Failed to mark all notifications read for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	prefs, err := h.notify.Preferences(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Failed to get preferences for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	var prefs models.NotificationPreference
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.logger.Errorf("Invalid request body for preferences: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.notify.UpdatePreferences(c.Request.Context(), userID, prefs)
	if err != nil {
		h.logger.Errorf("Failed to update preferences for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}
	h.logger.Infof("Updated notification preferences for user %d", userID)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req struct {
		UserID  int64  `json:"user_id" binding:"required"`
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
		Type    string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for notification: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	n, err := h.notify.Notify(c.Request.Context(), req.UserID, req.Title, req.Message, models.NotificationType(req.Type))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Errorf("Failed to create notification for user %d: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) BroadcastNotification(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
		Type    string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for broadcast: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sent, err := h.notify.NotifyAll(c.Request.Context(), req.Title, req.Message, models.NotificationType(req.Type))
	if err != nil {
		h.logger.Errorf("Failed to broadcast notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to broadcast notification"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipients": sent})
}
