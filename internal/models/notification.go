package models

import "time"

// NotificationType tags what a notification is about.
type NotificationType string

const (
	TypeAccountValidation NotificationType = "ACCOUNT_VALIDATION"
	TypeAccountApproved   NotificationType = "ACCOUNT_APPROVED"
	TypeAccountRejected   NotificationType = "ACCOUNT_REJECTED"
	TypeAccountSuspended  NotificationType = "ACCOUNT_SUSPENDED"

	TypeWeatherAlert    NotificationType = "WEATHER_ALERT"
	TypeAirQualityAlert NotificationType = "AIR_QUALITY_ALERT"

	TypeSystemAlert      NotificationType = "SYSTEM_ALERT"
	TypeMaintenanceAlert NotificationType = "MAINTENANCE_ALERT"

	TypeGeneralNotification NotificationType = "GENERAL_NOTIFICATION"
	TypeInfoNotification    NotificationType = "INFO_NOTIFICATION"

	TypeSecurityAlert NotificationType = "SECURITY_ALERT"
	TypeLoginAlert    NotificationType = "LOGIN_ALERT"

	TypeNewUser                NotificationType = "NEW_USER"
	TypeCriticalThresholdAlert NotificationType = "CRITICAL_THRESHOLD_ALERT"
)

// NotificationStatus is the read-state of a notification.
type NotificationStatus string

const (
	StatusUnread   NotificationStatus = "UNREAD"
	StatusRead     NotificationStatus = "READ"
	StatusArchived NotificationStatus = "ARCHIVED"
	StatusDeleted  NotificationStatus = "DELETED"
)

// Notification is a persisted, per-recipient record with read-state.
// ReferenceID/ReferenceType are a lookup hint to a related entity, not
// an ownership edge.
type Notification struct {
	ID            int64              `json:"id"`
	UserID        int64              `json:"user_id"`
	Title         string             `json:"title"`
	Message       string             `json:"message"`
	Type          NotificationType   `json:"type"`
	Status        NotificationStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	ReadAt        *time.Time         `json:"read_at,omitempty"`
	ReferenceID   *int64             `json:"reference_id,omitempty"`
	ReferenceType string             `json:"reference_type,omitempty"`
}

// NotificationPreference holds one recipient's delivery gates. Created
// lazily with everything enabled on first access.
type NotificationPreference struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	EmailNotifications   bool      `json:"email_notifications"`
	WebNotifications     bool      `json:"web_notifications"`
	WeatherAlerts        bool      `json:"weather_alerts"`
	AirQualityAlerts     bool      `json:"air_quality_alerts"`
	AccountNotifications bool      `json:"account_notifications"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DefaultPreference returns the all-enabled preference row created on
// first access for a recipient.
func DefaultPreference(userID int64) NotificationPreference {
	now := time.Now()
	return NotificationPreference{
		UserID:               userID,
		EmailNotifications:   true,
		WebNotifications:     true,
		WeatherAlerts:        true,
		AirQualityAlerts:     true,
		AccountNotifications: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
