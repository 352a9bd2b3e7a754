package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/vocabdrill/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ErrUserNotFound is returned when no user has the requested ID
var ErrUserNotFound = errors.New("database: user not found")

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `telegram_id, username, first_name, theme, sub_theme, notifications_enabled, created_at, updated_at`

// Ensure creates the user or refreshes the profile fields of an existing one.
// Theme and notification preferences of an existing user are kept.
func (r *UserRepository) Ensure(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	query := r.db.Rebind(`
		INSERT INTO users (telegram_id, username, first_name, notifications_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			updated_at = excluded.updated_at
	`)
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.FirstName, true, now, now); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetByID returns a user by Telegram ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE telegram_id = ?`)
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// UpdateTheme stores the user's preferred story theme
func (r *UserRepository) UpdateTheme(ctx context.Context, id int64, theme, subTheme string) error {
	query := r.db.Rebind(`UPDATE users SET theme = ?, sub_theme = ?, updated_at = ? WHERE telegram_id = ?`)
	return r.updateOne(ctx, query, theme, subTheme, time.Now().UTC(), id)
}

// SetNotifications turns due-word reminders on or off for the user
func (r *UserRepository) SetNotifications(ctx context.Context, id int64, enabled bool) error {
	query := r.db.Rebind(`UPDATE users SET notifications_enabled = ?, updated_at = ? WHERE telegram_id = ?`)
	return r.updateOne(ctx, query, enabled, time.Now().UTC(), id)
}

// ListForReminders returns users who accept due-word reminders
func (r *UserRepository) ListForReminders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE notifications_enabled = ? ORDER BY telegram_id`)
	if err := r.db.SelectContext(ctx, &users, query, true); err != nil {
		return nil, fmt.Errorf("failed to list users for reminders: %w", err)
	}
	return users, nil
}

func (r *UserRepository) updateOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
