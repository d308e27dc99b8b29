package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airwatch/internal/config"
	"airwatch/internal/logging"
)

// NewRouter wires the HTTP surface: alert and threshold management,
// per-user notifications, audit logging, admin endpoints, the latest
// reading, and the websocket attach point.
func NewRouter(h *Handler, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group(cfg.API.BasePath)
	{
		// Alerts
		api.GET("/alerts", h.GetAlerts)
		api.GET("/alerts/recent", h.GetRecentAlerts)
		api.GET("/alerts/severity/:severity", h.GetAlertsBySeverity)
		api.GET("/alerts/type/:type", h.GetAlertsByType)
		api.GET("/alerts/parameter/:parameter", h.GetAlertsByParameter)
		api.GET("/alerts/search", h.SearchAlerts)
		api.GET("/alerts/summary", h.GetAlertSummary)
		api.POST("/alerts", h.CreateAlert)
		api.POST("/alerts/check", h.CheckValue)
		api.POST("/alerts/recalculate", h.Recalculate)
		api.DELETE("/alerts/:id", h.DeleteAlert)
		api.DELETE("/alerts", h.DeleteAllAlerts)

		// Thresholds
		api.GET("/thresholds", h.GetThresholds)
		api.GET("/thresholds/:parameter", h.GetThresholdByParameter)
		api.PUT("/thresholds/:id", h.UpdateThreshold)

		// Per-user notifications
		api.GET("/users/:id/notifications", h.GetUserNotifications)
		api.GET("/users/:id/notifications/unread-count", h.GetUnreadCount)
		api.PUT("/users/:id/notifications/:notificationId/read", h.MarkNotificationRead)
		api.PUT("/users/:id/notifications/read-all", h.MarkAllNotificationsRead)
		api.GET("/users/:id/notification-preferences", h.GetPreferences)
		api.PUT("/users/:id/notification-preferences", h.UpdatePreferences)
		api.POST("/notifications", h.CreateNotification)
		api.POST("/notifications/broadcast", h.BroadcastNotification)

		// Audit
		api.POST("/auth/log", h.RecordLogin)
		api.GET("/admin/login-logs", h.GetLoginLogs)

		// Admin
		api.DELETE("/admin/users/:id", h.DeleteUser)

		// Latest sensor snapshot
		api.GET("/airquality/latest", h.GetLatestReading)
	}

	r.GET("/ws", h.ServeWS)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
