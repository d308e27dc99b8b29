package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"airwatch/internal/audit"
	"airwatch/internal/db"
	"airwatch/internal/models"
)

// RecordLogin accepts a login attempt for the audit trail. Always 202:
// audit failures are swallowed so they can never break a login flow.
func (h *Handler) RecordLogin(c *gin.Context) {
	var req struct {
		Username      string `json:"username"`
		Status        string `json:"status" binding:"required"`
		FailureReason string `json:"failure_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Status != models.LoginSuccess && req.Status != models.LoginFailure {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	h.audit.Record(c.Request.Context(), audit.Entry{
		Username:      req.Username,
		IPAddress:     c.ClientIP(),
		Status:        req.Status,
		UserAgent:     c.Request.UserAgent(),
		Path:          c.Request.URL.Path,
		FailureReason: req.FailureReason,
	})
	c.JSON(http.StatusAccepted, gin.H{"message": "Login recorded"})
}

func (h *Handler) GetLoginLogs(c *gin.Context) {
	var f models.LoginLogFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter"})
		return
	}
	limit, offset := pageParams(c)

	logs, err := h.audit.Logs(c.Request.Context(), f, limit, offset)
	if err != nil {
		h.logger.Errorf("Failed to get login logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get login logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// DeleteUser removes a user account. Deleting the last active
// administrator is rejected so the system always keeps one.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.db.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Errorf("Failed to get user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}

	if user.Role == models.RoleAdmin && user.Status == models.AccountActive {
		admins, err := h.db.CountActiveAdmins(ctx)
		if err != nil {
			h.logger.Errorf("Failed to count admins: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		if admins <= 1 {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete the last administrator"})
			return
		}
	}

	if err := h.db.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Errorf("Failed to delete user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	h.logger.Infof("Deleted user %d (%s)", id, user.Username)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
