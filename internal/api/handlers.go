package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"airwatch/internal/alerts"
	"airwatch/internal/audit"
	"airwatch/internal/db"
	"airwatch/internal/logging"
	"airwatch/internal/models"
	"airwatch/internal/notify"
	"airwatch/internal/readings"
	"airwatch/internal/ws"
)

type Handler struct {
	alerts *alerts.Service
	notify *notify.Service
	audit  *audit.Recorder
	cache  *readings.Cache
	hub    *ws.Hub
	db     *db.DB
	logger *logging.Logger
}

func NewHandler(alertSvc *alerts.Service, notifySvc *notify.Service, recorder *audit.Recorder, cache *readings.Cache, hub *ws.Hub, database *db.DB, logger *logging.Logger) *Handler {
	return &Handler{
		alerts: alertSvc,
		notify: notifySvc,
		audit:  recorder,
		cache:  cache,
		hub:    hub,
		db:     database,
		logger: logger,
	}
}

func (h *Handler) GetAlerts(c *gin.Context) {
	list, err := h.alerts.All(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetRecentAlerts(c *gin.Context) {
	list, err := h.alerts.Recent(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get recent alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recent alerts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAlertsBySeverity(c *gin.Context) {
	severity := c.Param("severity")
	if severity != models.SeverityWarning && severity != models.SeverityDanger {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid severity"})
		return
	}
	list, err := h.alerts.BySeverity(c.Request.Context(), severity)
	if err != nil {
		h.logger.Errorf("Failed to get alerts by severity %s: %v", severity, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAlertsByType(c *gin.Context) {
	typ := c.Param("type")
	list, err := h.alerts.ByType(c.Request.Context(), typ)
	if err != nil {
		h.logger.Errorf("Failed to get alerts by type %s: %v", typ, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAlertsByParameter(c *gin.Context) {
	parameter := c.Param("parameter")
	list, err := h.alerts.ByParameter(c.Request.Context(), parameter)
	if err != nil {
		h.logger.Errorf("Failed to get alerts by parameter %s: %v", parameter, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) SearchAlerts(c *gin.Context) {
	var f models.AlertFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.logger.Errorf("Invalid alert search filter: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search filter"})
		return
	}
	list, err := h.alerts.Search(c.Request.Context(), f)
	if err != nil {
		h.logger.Errorf("Failed to search alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search alerts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAlertSummary(c *gin.Context) {
	sum, err := h.alerts.Summary(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get alert summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alert summary"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req struct {
		Parameter string  `json:"parameter" binding:"required"`
		Value     float64 `json:"value"`
		Severity  string  `json:"severity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for alert: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Severity != models.SeverityWarning && req.Severity != models.SeverityDanger {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid severity"})
		return
	}

	a, err := h.alerts.CreateAlert(c.Request.Context(), req.Parameter, req.Value, req.Severity)
	if err != nil {
		h.logger.Errorf("Failed to create alert: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alert"})
		return
	}
	h.logger.Infof("Created alert %d (%s %s)", a.ID, a.Parameter, a.Severity)
	c.JSON(http.StatusCreated, a)
}

// CheckValue evaluates a single value against the configured threshold
// without waiting for the next sensor reading.
func (h *Handler) CheckValue(c *gin.Context) {
	var req struct {
		Parameter string  `json:"parameter" binding:"required"`
		Value     float64 `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for check: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	a, err := h.alerts.Evaluate(c.Request.Context(), req.Parameter, req.Value)
	if err != nil {
		if errors.Is(err, alerts.ErrThresholdMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No threshold configured for " + req.Parameter})
			return
		}
		h.logger.Errorf("Failed to evaluate %s: %v", req.Parameter, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate value"})
		return
	}
	if a == nil {
		c.JSON(http.StatusOK, gin.H{"breached": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"breached": true, "alert": a})
}

func (h *Handler) Recalculate(c *gin.Context) {
	if err := h.alerts.RecalculateAll(c.Request.Context()); err != nil {
		h.logger.Errorf("Recalculation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recalculation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recalculation complete"})
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert id"})
		return
	}
	if err := h.alerts.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		h.logger.Errorf("Failed to delete alert %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alert"})
		return
	}
	h.logger.Infof("Deleted alert %d", id)
	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted"})
}

func (h *Handler) DeleteAllAlerts(c *gin.Context) {
	n, err := h.alerts.DeleteAll(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to delete alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alerts"})
		return
	}
	h.logger.Infof("Deleted %d alerts", n)
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *Handler) GetThresholds(c *gin.Context) {
	list, err := h.alerts.Thresholds(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to get thresholds: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get thresholds"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetThresholdByParameter(c *gin.Context) {
	parameter := c.Param("parameter")
	t, err := h.alerts.ThresholdByParameter(c.Request.Context(), parameter)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Threshold not found"})
			return
		}
		h.logger.Errorf("Failed to get threshold for %s: %v", parameter, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get threshold"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) UpdateThreshold(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold id"})
		return
	}

	var req models.ThresholdUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for threshold: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	t, err := h.alerts.UpdateThreshold(c.Request.Context(), id, req.Warning, req.Critical)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Threshold not found"})
			return
		}
		h.logger.Errorf("Failed to update threshold %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update threshold"})
		return
	}
	h.logger.Infof("Updated threshold %d (%s)", t.ID, t.Parameter)
	c.JSON(http.StatusOK, t)
}

func (h *Handler) GetLatestReading(c *gin.Context) {
	r := h.cache.Get()
	if r.Timestamp.IsZero() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reading received yet"})
		return
	}
	c.JSON(http.StatusOK, r)
}
