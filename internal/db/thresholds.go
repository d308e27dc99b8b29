package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"airwatch/internal/models"
)

const thresholdColumns = "id, parameter, warning_threshold, critical_threshold, updated_at"

// GetThresholds returns every configured threshold.
func (d *DB) GetThresholds(ctx context.Context) ([]models.Threshold, error) {
	query := `SELECT ` + thresholdColumns + ` FROM alert_thresholds ORDER BY parameter`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query thresholds: %w", err)
	}
	defer rows.Close()

	var thresholds []models.Threshold
	for rows.Next() {
		var t models.Threshold
		if err := rows.Scan(&t.ID, &t.Parameter, &t.Warning, &t.Critical, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan threshold: %w", err)
		}
		thresholds = append(thresholds, t)
	}
	return thresholds, rows.Err()
}

// GetThresholdByParameter returns the threshold for one parameter;
// ErrNotFound if none is configured.
func (d *DB) GetThresholdByParameter(ctx context.Context, parameter string) (models.Threshold, error) {
	query := `SELECT ` + thresholdColumns + ` FROM alert_thresholds WHERE parameter = $1`
	var t models.Threshold
	err := d.Pool.QueryRow(ctx, query, parameter).
		Scan(&t.ID, &t.Parameter, &t.Warning, &t.Critical, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Threshold{}, ErrNotFound
		}
		return models.Threshold{}, fmt.Errorf("failed to get threshold for %s: %w", parameter, err)
	}
	return t, nil
}

// UpdateThreshold overwrites both levels and the updated_at stamp,
// returning the stored row. ErrNotFound if the id does not exist.
func (d *DB) UpdateThreshold(ctx context.Context, id int64, warning, critical *float64) (models.Threshold, error) {
	query := `
        UPDATE alert_thresholds
        SET warning_threshold = $1, critical_threshold = $2, updated_at = $3
        WHERE id = $4
        RETURNING ` + thresholdColumns
	var t models.Threshold
	err := d.Pool.QueryRow(ctx, query, warning, critical, time.Now(), id).
		Scan(&t.ID, &t.Parameter, &t.Warning, &t.Critical, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Threshold{}, ErrNotFound
		}
		return models.Threshold{}, fmt.Errorf("failed to update threshold %d: %w", id, err)
	}
	return t, nil
}

// CountThresholds returns the number of configured thresholds.
func (d *DB) CountThresholds(ctx context.Context) (int64, error) {
	var n int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM alert_thresholds`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count thresholds: %w", err)
	}
	return n, nil
}

// SeedThresholds inserts the given defaults. Callers check
// CountThresholds first so the seed runs once, at first boot.
func (d *DB) SeedThresholds(ctx context.Context, defaults []models.Threshold) error {
	query := `
        INSERT INTO alert_thresholds (parameter, warning_threshold, critical_threshold, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (parameter) DO NOTHING`
	for _, t := range defaults {
		if _, err := d.Pool.Exec(ctx, query, t.Parameter, t.Warning, t.Critical, time.Now()); err != nil {
			return fmt.Errorf("failed to seed threshold %s: %w", t.Parameter, err)
		}
	}
	return nil
}
