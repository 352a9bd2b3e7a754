package spaced_repetition

import (
	"fmt"
	"math"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// Day is the length of one scheduling interval unit
const Day = 24 * time.Hour

// Scheduler implements a simplified SM-2 policy: a fixed interval multiplier per
// grade and no persisted ease factor.
type Scheduler struct {
	// Number of words in one study session
	BatchSize int
	// Maximum number of due words drawn into one session
	DueQuota int
	// Interval multiplier per passing grade
	Multipliers map[models.Quality]float64
}

// NewScheduler creates a scheduler with the default settings
func NewScheduler() *Scheduler {
	return &Scheduler{
		BatchSize: 5,
		DueQuota:  3,
		Multipliers: map[models.Quality]float64{
			models.QualityHard: 1.2,
			models.QualityGood: 2.5,
			models.QualityEasy: 4.0,
		},
	}
}

// Config overrides scheduler defaults. A non-positive BatchSize or a nil DueQuota
// keeps the default; a DueQuota of 0 selects new words only.
type Config struct {
	BatchSize int
	DueQuota  *int
}

// NewSchedulerWithConfig creates a scheduler with the batch settings overridden
func NewSchedulerWithConfig(cfg Config) *Scheduler {
	s := NewScheduler()
	if cfg.BatchSize > 0 {
		s.BatchSize = cfg.BatchSize
	}
	if cfg.DueQuota != nil && *cfg.DueQuota >= 0 {
		s.DueQuota = *cfg.DueQuota
	}
	return s
}

// Grade computes the record that replaces record after a review graded with quality at now.
// A nil record means the word has never been studied. The input is never modified.
func (s *Scheduler) Grade(record *models.WordRecord, quality models.Quality, now time.Time) (models.WordRecord, error) {
	if !quality.IsValid() {
		return models.WordRecord{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}

	var next models.WordRecord
	if record != nil {
		next = *record
	}
	next.Seen++

	if quality == models.QualityForgot {
		next.Mastery = 0
		next.Interval = 1
		next.NextReview = now
		return next, nil
	}

	prior := next.Interval
	if prior < 1 {
		prior = 1
	}
	interval := int(math.Floor(float64(prior) * s.multiplier(quality)))
	if interval < 1 {
		interval = 1
	}

	next.Interval = interval
	next.Mastery++
	next.NextReview = now.Add(time.Duration(interval) * Day)
	return next, nil
}

func (s *Scheduler) multiplier(quality models.Quality) float64 {
	if m, ok := s.Multipliers[quality]; ok {
		return m
	}
	return 2.5
}

// IsDue reports whether a studied word should be reviewed at now
func IsDue(record models.WordRecord, now time.Time) bool {
	return record.NextReview.Before(now)
}
