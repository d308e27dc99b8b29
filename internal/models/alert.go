package models

import "time"

// Alert severities. The stored values match what downstream consumers
// of the alert stream already expect.
const (
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Alert types, derived from the parameter that breached.
const (
	AlertTypeWeather = "weather"
	AlertTypeAir     = "air"
)

// Alert is a persisted record of one threshold breach. Immutable once
// created, except for deletion.
type Alert struct {
	ID        int64     `json:"id"`
	Parameter string    `json:"parameter"`
	Value     float64   `json:"value"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertFilter is a multi-field alert search. Nil/empty fields match all.
type AlertFilter struct {
	Parameter string     `json:"parameter" form:"parameter"`
	Severity  string     `json:"severity" form:"severity"`
	Type      string     `json:"type" form:"type"`
	From      *time.Time `json:"from" form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time `json:"to" form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// AlertSummary counts alerts from the last 24 hours by severity.
type AlertSummary struct {
	Danger  int64 `json:"danger"`
	Warning int64 `json:"warning"`
	Total   int64 `json:"total"`
}
