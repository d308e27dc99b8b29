package db

import (
	"context"
	"fmt"
	"time"

	"airwatch/internal/models"
)

const loginLogColumns = "id, username, ip_address, login_time, status, user_agent, path, failure_reason"

// HasRecentLoginLog reports whether an entry with the same
// (username, ip, status) exists newer than since. This backs the
// duplicate-suppression window on audit recording.
func (d *DB) HasRecentLoginLog(ctx context.Context, username, ip, status string, since time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM login_logs
            WHERE username = $1 AND ip_address = $2 AND status = $3 AND login_time > $4
        )`
	var exists bool
	if err := d.Pool.QueryRow(ctx, query, username, ip, status, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent login log: %w", err)
	}
	return exists, nil
}

// CreateLoginLog inserts an audit entry and fills in its ID.
func (d *DB) CreateLoginLog(ctx context.Context, l *models.LoginLog) error {
	query := `
        INSERT INTO login_logs (username, ip_address, login_time, status, user_agent, path, failure_reason)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	err := d.Pool.QueryRow(ctx, query,
		l.Username, l.IPAddress, l.LoginTime, l.Status, l.UserAgent, l.Path, l.FailureReason,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("failed to create login log: %w", err)
	}
	return nil
}

// GetLoginLogs returns audit entries newest first, with optional
// filters; empty filter fields match all.
func (d *DB) GetLoginLogs(ctx context.Context, f models.LoginLogFilter, limit, offset int) ([]models.LoginLog, error) {
	query := `
        SELECT ` + loginLogColumns + `
        FROM login_logs
        WHERE ($1 = '' OR username = $1)
          AND ($2 = '' OR ip_address = $2)
          AND ($3 = '' OR status = $3)
        ORDER BY login_time DESC
        LIMIT $4 OFFSET $5`
	rows, err := d.Pool.Query(ctx, query, f.Username, f.IP, f.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query login logs: %w", err)
	}
	defer rows.Close()

	var logs []models.LoginLog
	for rows.Next() {
		var l models.LoginLog
		var agent, path, reason *string
		err := rows.Scan(&l.ID, &l.Username, &l.IPAddress, &l.LoginTime, &l.Status, &agent, &path, &reason)
		if err != nil {
			return nil, fmt.Errorf("failed to scan login log: %w", err)
		}
		if agent != nil {
			l.UserAgent = *agent
		}
		if path != nil {
			l.Path = *path
		}
		if reason != nil {
			l.FailureReason = *reason
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// DeleteLoginLogsBefore removes audit entries older than cutoff.
func (d *DB) DeleteLoginLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM login_logs WHERE login_time < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old login logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
