package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/vocabdrill/internal/config"
	"github.com/example/vocabdrill/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(config.Database{
		Type: config.DatabaseSQLite,
		Path: filepath.Join(t.TempDir(), "nested", "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	cfg := config.Database{Type: config.DatabaseSQLite, Path: path}

	first, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestHistoryLoadUnknownUserIsEmpty(t *testing.T) {
	repo := NewHistoryRepository(setupTestDB(t))

	history, err := repo.Load(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestHistorySaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(setupTestDB(t))
	next := time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC)

	history := models.LearningHistory{
		"cat": {Mastery: 3, Seen: 5, Interval: 10, NextReview: next},
		"Cat": {Mastery: 0, Seen: 1, Interval: 1, NextReview: next.Add(-10 * 24 * time.Hour)},
	}
	require.NoError(t, repo.Save(ctx, 1, history))

	loaded, err := repo.Load(ctx, 1)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 3, loaded["cat"].Mastery)
	assert.Equal(t, 10, loaded["cat"].Interval)
	assert.True(t, next.Equal(loaded["cat"].NextReview))
	assert.Equal(t, 1, loaded["Cat"].Seen)

	other, err := repo.Load(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHistorySaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(setupTestDB(t))
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, 1, models.LearningHistory{
		"cat": {Mastery: 1, Seen: 1, Interval: 4, NextReview: now},
	}))
	require.NoError(t, repo.Save(ctx, 1, models.LearningHistory{
		"cat": {Mastery: 0, Seen: 2, Interval: 1, NextReview: now.Add(time.Hour)},
		"dog": {Mastery: 1, Seen: 1, Interval: 4, NextReview: now},
	}))

	loaded, err := repo.Load(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, 2, loaded["cat"].Seen)
	assert.Equal(t, 0, loaded["cat"].Mastery)
	assert.True(t, now.Add(time.Hour).Equal(loaded["cat"].NextReview))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.GetByID(ctx, 7)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	require.NoError(t, repo.Ensure(ctx, &models.User{ID: 7, Username: "ann", FirstName: "Ann"}))
	require.NoError(t, repo.UpdateTheme(ctx, 7, "Travel", "City Exploration"))
	require.NoError(t, repo.Ensure(ctx, &models.User{ID: 7, Username: "ann_b", FirstName: "Ann"}))

	user, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "ann_b", user.Username)
	assert.Equal(t, "Travel", user.Theme)
	assert.Equal(t, "City Exploration", user.SubTheme)
	assert.True(t, user.NotificationsEnabled)

	require.NoError(t, repo.Ensure(ctx, &models.User{ID: 8, Username: "bob"}))
	require.NoError(t, repo.SetNotifications(ctx, 7, false))

	users, err := repo.ListForReminders(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(8), users[0].ID)

	assert.True(t, errors.Is(repo.SetNotifications(ctx, 99, true), ErrUserNotFound))
}
