package spaced_repetition

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/example/vocabdrill/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestGradeRecalled(t *testing.T) {
	t.Parallel()
	s := NewScheduler()

	testCases := []struct {
		name         string
		interval     int
		quality      models.Quality
		wantInterval int
	}{
		{name: "hard grows slowly", interval: 10, quality: models.QualityHard, wantInterval: 12},
		{name: "hard on interval one stays at one", interval: 1, quality: models.QualityHard, wantInterval: 1},
		{name: "good multiplies by 2.5", interval: 4, quality: models.QualityGood, wantInterval: 10},
		{name: "good floors fractional days", interval: 3, quality: models.QualityGood, wantInterval: 7},
		{name: "easy multiplies by 4", interval: 7, quality: models.QualityEasy, wantInterval: 28},
		{name: "zero interval counts as one day", interval: 0, quality: models.QualityEasy, wantInterval: 4},
		{name: "zero interval hard", interval: 0, quality: models.QualityHard, wantInterval: 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			record := &models.WordRecord{Mastery: 2, Seen: 5, Interval: tc.interval, NextReview: t0}

			got, err := s.Grade(record, tc.quality, t0)
			require.NoError(t, err)

			assert.Equal(t, tc.wantInterval, got.Interval)
			assert.Equal(t, 3, got.Mastery)
			assert.Equal(t, 6, got.Seen)
			assert.Equal(t, t0.Add(time.Duration(tc.wantInterval)*Day), got.NextReview)
		})
	}
}

func TestGradeForgotResets(t *testing.T) {
	t.Parallel()
	s := NewScheduler()

	for _, record := range []*models.WordRecord{
		nil,
		{Mastery: 7, Seen: 12, Interval: 90, NextReview: t0.Add(-time.Hour)},
		{Mastery: 0, Seen: 1, Interval: 1, NextReview: t0},
	} {
		got, err := s.Grade(record, models.QualityForgot, t0)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Mastery)
		assert.Equal(t, 1, got.Interval)
		assert.True(t, got.NextReview.Equal(t0))
	}
}

func TestGradeScenarioCat(t *testing.T) {
	s := NewScheduler()
	record := &models.WordRecord{Mastery: 2, Seen: 4, Interval: 4, NextReview: t0}
	now := t0.Add(5 * Day)

	got, err := s.Grade(record, models.QualityGood, now)
	require.NoError(t, err)

	assert.Equal(t, models.WordRecord{
		Mastery:    3,
		Seen:       5,
		Interval:   10,
		NextReview: t0.Add(5 * Day).Add(10 * Day),
	}, got)
}

func TestGradeScenarioDog(t *testing.T) {
	s := NewScheduler()
	t1 := t0.Add(36 * time.Hour)

	got, err := s.Grade(nil, models.QualityForgot, t1)
	require.NoError(t, err)

	assert.Equal(t, models.WordRecord{Mastery: 0, Seen: 1, Interval: 1, NextReview: t1}, got)
}

func TestGradeDoesNotMutateInput(t *testing.T) {
	s := NewScheduler()
	record := models.WordRecord{Mastery: 1, Seen: 1, Interval: 2, NextReview: t0}
	original := record

	first, err := s.Grade(&record, models.QualityEasy, t0)
	require.NoError(t, err)
	second, err := s.Grade(&record, models.QualityEasy, t0)
	require.NoError(t, err)

	assert.Equal(t, original, record)
	assert.Equal(t, first, second)
}

func TestGradeRejectsInvalidQuality(t *testing.T) {
	s := NewScheduler()
	record := &models.WordRecord{Mastery: 1, Seen: 2, Interval: 3, NextReview: t0}

	for _, q := range []models.Quality{-1, 1, 2, 6, 42} {
		_, err := s.Grade(record, q, t0)
		assert.True(t, errors.Is(err, ErrInvalidQuality), "quality %d", q)
	}
	assert.Equal(t, 2, record.Seen)
}

func TestSeenNeverBelowMastery(t *testing.T) {
	s := NewScheduler()
	var record *models.WordRecord
	grades := []models.Quality{5, 4, 0, 3, 3, 5, 0, 4}

	now := t0
	for _, q := range grades {
		next, err := s.Grade(record, q, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, next.Seen, next.Mastery)
		record = &next
		now = next.NextReview.Add(time.Minute)
	}
	assert.Equal(t, len(grades), record.Seen)
	assert.Equal(t, 1, record.Mastery)
}

func intPtr(n int) *int { return &n }

func TestNewSchedulerWithConfig(t *testing.T) {
	s := NewSchedulerWithConfig(Config{BatchSize: 10})
	assert.Equal(t, 10, s.BatchSize)
	assert.Equal(t, 3, s.DueQuota)

	s = NewSchedulerWithConfig(Config{BatchSize: 5, DueQuota: intPtr(1)})
	assert.Equal(t, 1, s.DueQuota)

	s = NewSchedulerWithConfig(Config{DueQuota: intPtr(-1)})
	assert.Equal(t, 5, s.BatchSize)
	assert.Equal(t, 3, s.DueQuota)
}

func TestZeroDueQuotaSelectsOnlyNewWords(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedulerWithConfig(Config{BatchSize: 5, DueQuota: intPtr(0)})
	require.Equal(t, 0, s.DueQuota)

	history := models.LearningHistory{
		"old": {Mastery: 1, Seen: 1, Interval: 1, NextReview: now.Add(-48 * time.Hour)},
	}
	batch, err := s.SelectBatch(history, []string{"old", "fresh"}, now, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, batch)
}
