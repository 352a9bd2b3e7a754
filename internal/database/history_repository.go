package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/vocabdrill/pkg/models"
	"github.com/jmoiron/sqlx"
)

// HistoryRepository stores each user's learning history, one row per studied word
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new repository instance
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type wordRecordRow struct {
	Word         string    `db:"word"`
	Mastery      int       `db:"mastery"`
	Seen         int       `db:"seen"`
	IntervalDays int       `db:"interval_days"`
	NextReview   time.Time `db:"next_review"`
}

// Load returns the learning history of a user. A user without records gets an empty history.
func (r *HistoryRepository) Load(ctx context.Context, userID int64) (models.LearningHistory, error) {
	var rows []wordRecordRow
	query := r.db.Rebind(`
		SELECT word, mastery, seen, interval_days, next_review
		FROM word_records
		WHERE user_id = ?
	`)
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load learning history: %w", err)
	}

	history := make(models.LearningHistory, len(rows))
	for _, row := range rows {
		history[row.Word] = models.WordRecord{
			Mastery:    row.Mastery,
			Seen:       row.Seen,
			Interval:   row.IntervalDays,
			NextReview: row.NextReview.UTC(),
		}
	}
	return history, nil
}

// Save writes every record of history for the user. Concurrent saves for the same
// user are last-writer-wins per word.
func (r *HistoryRepository) Save(ctx context.Context, userID int64, history models.LearningHistory) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, r.db.Rebind(`
		INSERT INTO word_records (user_id, word, mastery, seen, interval_days, next_review, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, word) DO UPDATE SET
			mastery = excluded.mastery,
			seen = excluded.seen,
			interval_days = excluded.interval_days,
			next_review = excluded.next_review,
			updated_at = excluded.updated_at
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare history upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for word, record := range history {
		_, err := stmt.ExecContext(ctx,
			userID,
			word,
			record.Mastery,
			record.Seen,
			record.Interval,
			record.NextReview.UTC(),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to save record for %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit learning history: %w", err)
	}
	return nil
}
