package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingest metrics
	ReadingsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airwatch_readings_ingested_total",
			Help: "Total number of sensor readings accepted",
		},
	)

	ReadingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwatch_readings_rejected_total",
			Help: "Total number of sensor payloads discarded",
		},
		[]string{"reason"},
	)

	// Alert metrics
	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwatch_alerts_created_total",
			Help: "Total number of alerts persisted",
		},
		[]string{"severity"},
	)

	// Notification metrics
	NotificationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airwatch_notifications_created_total",
			Help: "Total number of per-user notifications persisted",
		},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwatch_emails_sent_total",
			Help: "Total number of notification emails dispatched",
		},
		[]string{"status"}, // status: success, failed, dropped
	)

	BroadcastErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airwatch_broadcast_errors_total",
			Help: "Total number of failed topic/queue publishes",
		},
	)

	// Audit metrics
	AuditDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airwatch_audit_deduplicated_total",
			Help: "Total number of audit entries skipped by the dedup window",
		},
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "airwatch_ws_connections",
			Help: "Current number of live WebSocket connections",
		},
	)
)
