package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"airwatch/internal/models"
)

const userColumns = "id, username, email, role, status"

// UserByID returns one user; ErrNotFound if absent.
func (d *DB) UserByID(ctx context.Context, id int64) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u models.User
	err := d.Pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

// ListActiveUsers returns every active recipient, used by broadcast
// notification paths.
func (d *DB) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = $1 ORDER BY id`
	rows, err := d.Pool.Query(ctx, query, models.AccountActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Status); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountActiveAdmins backs the last-administrator delete guard.
func (d *DB) CountActiveAdmins(ctx context.Context) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM users WHERE role = $1 AND status = $2`
	if err := d.Pool.QueryRow(ctx, query, models.RoleAdmin, models.AccountActive).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

// DeleteUser removes a user and, via cascading constraints, their
// notifications and preference row. ErrNotFound if absent.
func (d *DB) DeleteUser(ctx context.Context, id int64) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
