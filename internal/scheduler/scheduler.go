// Package scheduler sends periodic reminders to users with words due for review.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier sends a reminder about count due words
type Notifier interface {
	SendReminder(userID int64, count int) error
}

// UserLister returns the users that accept reminders
type UserLister interface {
	ListForReminders(ctx context.Context) ([]models.User, error)
}

// HistoryLoader loads a user's learning history
type HistoryLoader interface {
	Load(ctx context.Context, userID int64) (models.LearningHistory, error)
}

// Config holds the reminder window in hours of the scheduler's location, inclusive
type Config struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     UserLister
	histories HistoryLoader
	config    Config
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(notifier Notifier, users UserLister, histories HistoryLoader, config Config, logger *slog.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(config.Location),
		notifier:  notifier,
		users:     users,
		histories: histories,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Hour().Do(func() {
		sent := s.CheckReminders(context.Background())
		s.logger.Info("reminder check finished", "sent", sent)
	})
	if err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// InWindow reports whether hour falls inside the notification window
func (s *Scheduler) InWindow(hour int) bool {
	return hour >= s.config.StartHour && hour <= s.config.EndHour
}

// CheckReminders notifies every opted-in user with due words and returns how many reminders were sent
func (s *Scheduler) CheckReminders(ctx context.Context) int {
	now := s.now().In(s.config.Location)
	if !s.InWindow(now.Hour()) {
		s.logger.Debug("outside notification hours, skipping reminders",
			"hour", now.Hour(),
			"start_hour", s.config.StartHour,
			"end_hour", s.config.EndHour)
		return 0
	}

	users, err := s.users.ListForReminders(ctx)
	if err != nil {
		s.logger.Error("failed to list users for reminders", "error", err)
		return 0
	}

	sent := 0
	for _, user := range users {
		ok, err := s.CheckUser(ctx, user.ID)
		if err != nil {
			s.logger.Error("failed to send reminder", "user_id", user.ID, "error", err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent
}

// CheckUser sends a reminder to one user when they have due words
func (s *Scheduler) CheckUser(ctx context.Context, userID int64) (bool, error) {
	history, err := s.histories.Load(ctx, userID)
	if err != nil {
		return false, err
	}

	count := spaced_repetition.CountDue(history, s.now())
	if count == 0 {
		return false, nil
	}
	if err := s.notifier.SendReminder(userID, count); err != nil {
		return false, err
	}
	return true, nil
}
