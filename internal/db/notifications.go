package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"airwatch/internal/models"
)

const notificationColumns = "id, user_id, title, message, type, status, created_at, read_at, reference_id, reference_type"

// CreateNotification inserts a notification row and fills in its ID.
func (d *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
        INSERT INTO notifications (user_id, title, message, type, status, created_at, reference_id, reference_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`
	err := d.Pool.QueryRow(ctx, query,
		n.UserID, n.Title, n.Message, n.Type, n.Status, n.CreatedAt, n.ReferenceID, n.ReferenceType,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotificationsByUser returns one user's notifications, newest first.
func (d *DB) NotificationsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Notification, error) {
	query := `
        SELECT ` + notificationColumns + `
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := d.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications for user %d: %w", userID, err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var refType *string
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Status,
			&n.CreatedAt, &n.ReadAt, &n.ReferenceID, &refType)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if refType != nil {
			n.ReferenceType = *refType
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountUnread returns the number of UNREAD notifications for a user.
func (d *DB) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND status = $2`
	if err := d.Pool.QueryRow(ctx, query, userID, models.StatusUnread).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %d: %w", userID, err)
	}
	return n, nil
}

// MarkNotificationRead flips one UNREAD notification to READ, but only
// when it belongs to userID. The status filter keeps the transition
// one-way: READ, ARCHIVED, and DELETED rows are never touched. Returns
// rows affected (0 means foreign, missing, or not UNREAD).
func (d *DB) MarkNotificationRead(ctx context.Context, id, userID int64, at time.Time) (int64, error) {
	query := `
        UPDATE notifications
        SET status = $1, read_at = $2
        WHERE id = $3 AND user_id = $4 AND status = $5`
	tag, err := d.Pool.Exec(ctx, query, models.StatusRead, at, id, userID, models.StatusUnread)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// MarkAllNotificationsRead bulk-updates UNREAD to READ for one user and
// returns the number of rows affected.
func (d *DB) MarkAllNotificationsRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	query := `
        UPDATE notifications
        SET status = $1, read_at = $2
        WHERE user_id = $3 AND status = $4`
	tag, err := d.Pool.Exec(ctx, query, models.StatusRead, at, userID, models.StatusUnread)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read for user %d: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteNotificationsBefore removes notifications older than cutoff.
func (d *DB) DeleteNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

const preferenceColumns = "id, user_id, email_notifications, web_notifications, weather_alerts, air_quality_alerts, account_notifications, created_at, updated_at"

// Preference returns one user's notification preference row;
// ErrNotFound if none exists yet.
func (d *DB) Preference(ctx context.Context, userID int64) (models.NotificationPreference, error) {
	query := `SELECT ` + preferenceColumns + ` FROM notification_preferences WHERE user_id = $1`
	var p models.NotificationPreference
	err := d.Pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.EmailNotifications, &p.WebNotifications,
		&p.WeatherAlerts, &p.AirQualityAlerts, &p.AccountNotifications,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NotificationPreference{}, ErrNotFound
		}
		return models.NotificationPreference{}, fmt.Errorf("failed to get preferences for user %d: %w", userID, err)
	}
	return p, nil
}

// SavePreference upserts a user's preference row and returns the stored
// version. The unique user_id constraint makes lazy creation race-safe.
func (d *DB) SavePreference(ctx context.Context, p models.NotificationPreference) (models.NotificationPreference, error) {
	query := `
        INSERT INTO notification_preferences
            (user_id, email_notifications, web_notifications, weather_alerts, air_quality_alerts, account_notifications, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            email_notifications = EXCLUDED.email_notifications,
            web_notifications = EXCLUDED.web_notifications,
            weather_alerts = EXCLUDED.weather_alerts,
            air_quality_alerts = EXCLUDED.air_quality_alerts,
            account_notifications = EXCLUDED.account_notifications,
            updated_at = EXCLUDED.updated_at
        RETURNING ` + preferenceColumns
	var stored models.NotificationPreference
	err := d.Pool.QueryRow(ctx, query,
		p.UserID, p.EmailNotifications, p.WebNotifications,
		p.WeatherAlerts, p.AirQualityAlerts, p.AccountNotifications,
		p.CreatedAt, time.Now(),
	).Scan(
		&stored.ID, &stored.UserID, &stored.EmailNotifications, &stored.WebNotifications,
		&stored.WeatherAlerts, &stored.AirQualityAlerts, &stored.AccountNotifications,
		&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return models.NotificationPreference{}, fmt.Errorf("failed to save preferences for user %d: %w", p.UserID, err)
	}
	return stored, nil
}
