package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdrill/pkg/models"
)

type recordingNotifier struct {
	sent map[int64]int
	err  error
}

func (n *recordingNotifier) SendReminder(userID int64, count int) error {
	if n.err != nil {
		return n.err
	}
	n.sent[userID] = count
	return nil
}

type staticUsers struct {
	users []models.User
	err   error
}

func (s staticUsers) ListForReminders(context.Context) ([]models.User, error) {
	return s.users, s.err
}

type staticHistories map[int64]models.LearningHistory

func (h staticHistories) Load(_ context.Context, userID int64) (models.LearningHistory, error) {
	if history, ok := h[userID]; ok {
		return history, nil
	}
	return models.LearningHistory{}, nil
}

func newTestScheduler(notifier Notifier, users UserLister, histories HistoryLoader, now time.Time) *Scheduler {
	s := New(notifier, users, histories, Config{StartHour: 8, EndHour: 22}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return now }
	return s
}

func TestCheckReminders(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	histories := staticHistories{
		1: {
			"a": {Mastery: 1, Seen: 1, Interval: 1, NextReview: now.Add(-time.Hour)},
			"b": {Mastery: 1, Seen: 1, Interval: 1, NextReview: now.Add(-time.Minute)},
			"c": {Mastery: 2, Seen: 2, Interval: 3, NextReview: now.Add(time.Hour)},
		},
		2: {
			"a": {Mastery: 1, Seen: 1, Interval: 1, NextReview: now.Add(time.Hour)},
		},
	}
	users := staticUsers{users: []models.User{{ID: 1}, {ID: 2}, {ID: 3}}}
	notifier := &recordingNotifier{sent: map[int64]int{}}

	s := newTestScheduler(notifier, users, histories, now)
	assert.Equal(t, 1, s.CheckReminders(context.Background()))
	assert.Equal(t, map[int64]int{1: 2}, notifier.sent)
}

func TestCheckRemindersOutsideWindow(t *testing.T) {
	now := time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC)
	histories := staticHistories{1: {"a": {NextReview: now.Add(-time.Hour)}}}
	notifier := &recordingNotifier{sent: map[int64]int{}}

	s := newTestScheduler(notifier, staticUsers{users: []models.User{{ID: 1}}}, histories, now)
	assert.Equal(t, 0, s.CheckReminders(context.Background()))
	assert.Empty(t, notifier.sent)
}

func TestCheckRemindersErrors(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	histories := staticHistories{1: {"a": {NextReview: now.Add(-time.Hour)}}}

	s := newTestScheduler(&recordingNotifier{sent: map[int64]int{}}, staticUsers{err: errors.New("db")}, histories, now)
	assert.Equal(t, 0, s.CheckReminders(context.Background()))

	failing := &recordingNotifier{sent: map[int64]int{}, err: errors.New("blocked")}
	s = newTestScheduler(failing, staticUsers{users: []models.User{{ID: 1}}}, histories, now)
	assert.Equal(t, 0, s.CheckReminders(context.Background()))

	_, err := s.CheckUser(context.Background(), 1)
	require.Error(t, err)
}

func TestInWindow(t *testing.T) {
	s := New(nil, nil, nil, Config{StartHour: DefaultNotificationStartHour, EndHour: DefaultNotificationEndHour}, nil)
	assert.False(t, s.InWindow(7))
	assert.True(t, s.InWindow(8))
	assert.True(t, s.InWindow(22))
	assert.False(t, s.InWindow(23))
}

func TestStartStop(t *testing.T) {
	s := New(&recordingNotifier{sent: map[int64]int{}}, staticUsers{}, staticHistories{}, Config{StartHour: 0, EndHour: 23}, nil)
	require.NoError(t, s.Start())
	s.Stop()
}
