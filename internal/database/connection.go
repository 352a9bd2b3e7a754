package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/vocabdrill/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the configured database and makes sure the schema exists
func Connect(cfg config.Database) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Type {
	case config.DatabasePostgres:
		db, err = sqlx.Connect("postgres", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	default:
		db, err = connectSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func connectSQLite(path string) (*sqlx.DB, error) {
	// Create data directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	timestamp := "TIMESTAMP"
	if db.DriverName() == "postgres" {
		timestamp = "TIMESTAMPTZ"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			theme TEXT NOT NULL DEFAULT '',
			sub_theme TEXT NOT NULL DEFAULT '',
			notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at ` + timestamp + ` NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at ` + timestamp + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS word_records (
			user_id BIGINT NOT NULL,
			word TEXT NOT NULL,
			mastery INTEGER NOT NULL DEFAULT 0,
			seen INTEGER NOT NULL DEFAULT 0,
			interval_days INTEGER NOT NULL DEFAULT 0,
			next_review ` + timestamp + ` NOT NULL,
			updated_at ` + timestamp + ` NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, word)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create word_records table: %w", err)
	}

	return nil
}
