package spaced_repetition

import (
	"testing"
	"time"

	"github.com/example/vocabdrill/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestTag(t *testing.T) {
	history := models.LearningHistory{
		"cat": {Mastery: 0, Seen: 2},
		"dog": {Mastery: 2, Seen: 2},
		"sun": {Mastery: 3, Seen: 4},
	}

	assert.Equal(t, TagNew, Tag(history, "sky"))
	assert.Equal(t, TagLearning, Tag(history, "cat"))
	assert.Equal(t, TagLearning, Tag(history, "dog"))
	assert.Equal(t, TagLongTerm, Tag(history, "sun"))
}

func TestSummarize(t *testing.T) {
	history := models.LearningHistory{
		"cat": {Mastery: 0, Seen: 1, Interval: 1, NextReview: t0.Add(-time.Minute)},
		"dog": {Mastery: 4, Seen: 4, Interval: 40, NextReview: t0.Add(40 * Day)},
		"sun": {Mastery: 1, Seen: 3, Interval: 2, NextReview: t0.Add(-Day)},
	}

	got := Summarize(history, sevenWords, t0)

	assert.Equal(t, Summary{
		CatalogSize: 7,
		Studied:     3,
		Due:         2,
		New:         4,
		Learning:    2,
		LongTerm:    1,
	}, got)
	assert.Equal(t, 2, CountDue(history, t0))
}
