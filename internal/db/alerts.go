package db

import (
	"context"
	"fmt"
	"time"

	"airwatch/internal/models"
)

const alertColumns = "id, parameter, value, severity, message, type, timestamp"

// CreateAlert inserts a new alert row and fills in its generated ID.
func (d *DB) CreateAlert(ctx context.Context, a *models.Alert) error {
	query := `
        INSERT INTO alerts (parameter, value, severity, message, type, timestamp)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	err := d.Pool.QueryRow(ctx, query,
		a.Parameter, a.Value, a.Severity, a.Message, a.Type, a.Timestamp,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// GetAlerts returns every alert, newest first.
func (d *DB) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts ORDER BY timestamp DESC`
	return d.queryAlerts(ctx, query)
}

// GetAlertsBySeverity returns alerts of one severity, newest first.
func (d *DB) GetAlertsBySeverity(ctx context.Context, severity string) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE severity = $1 ORDER BY timestamp DESC`
	return d.queryAlerts(ctx, query, severity)
}

// GetAlertsByType returns alerts of one type (weather/air), newest first.
func (d *DB) GetAlertsByType(ctx context.Context, typ string) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE type = $1 ORDER BY timestamp DESC`
	return d.queryAlerts(ctx, query, typ)
}

// GetAlertsByParameter returns alerts for one parameter, newest first.
func (d *DB) GetAlertsByParameter(ctx context.Context, parameter string) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE parameter = $1 ORDER BY timestamp DESC`
	return d.queryAlerts(ctx, query, parameter)
}

// GetRecentAlerts returns alerts from the last 24 hours, newest first.
func (d *DB) GetRecentAlerts(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE timestamp >= $1 ORDER BY timestamp DESC`
	return d.queryAlerts(ctx, query, time.Now().Add(-24*time.Hour))
}

// SearchAlerts applies a multi-field filter; empty fields match all.
func (d *DB) SearchAlerts(ctx context.Context, f models.AlertFilter) ([]models.Alert, error) {
	query := `
        SELECT ` + alertColumns + `
        FROM alerts
        WHERE ($1 = '' OR parameter = $1)
          AND ($2 = '' OR severity = $2)
          AND ($3 = '' OR type = $3)
          AND ($4::timestamptz IS NULL OR timestamp >= $4)
          AND ($5::timestamptz IS NULL OR timestamp <= $5)
        ORDER BY timestamp DESC`
	return d.queryAlerts(ctx, query, f.Parameter, f.Severity, f.Type, f.From, f.To)
}

// SummarizeRecentAlerts counts alerts from the last 24 hours by severity.
func (d *DB) SummarizeRecentAlerts(ctx context.Context) (models.AlertSummary, error) {
	query := `
        SELECT
            COUNT(*) FILTER (WHERE severity = 'danger'),
            COUNT(*) FILTER (WHERE severity = 'warning'),
            COUNT(*)
        FROM alerts
        WHERE timestamp >= $1`
	var s models.AlertSummary
	err := d.Pool.QueryRow(ctx, query, time.Now().Add(-24*time.Hour)).
		Scan(&s.Danger, &s.Warning, &s.Total)
	if err != nil {
		return models.AlertSummary{}, fmt.Errorf("failed to summarize alerts: %w", err)
	}
	return s, nil
}

// DeleteAlert removes one alert; ErrNotFound if it does not exist.
func (d *DB) DeleteAlert(ctx context.Context, id int64) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllAlerts removes every alert and returns the count removed.
func (d *DB) DeleteAllAlerts(ctx context.Context) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM alerts`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete alerts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteAlertsBefore removes alerts older than cutoff (retention job).
func (d *DB) DeleteAlertsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM alerts WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old alerts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (d *DB) queryAlerts(ctx context.Context, query string, args ...any) ([]models.Alert, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.Parameter, &a.Value, &a.Severity, &a.Message, &a.Type, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
