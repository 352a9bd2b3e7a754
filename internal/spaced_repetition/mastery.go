package spaced_repetition

import (
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// LongTermMastery is the mastery at which a word counts as committed to long-term memory
const LongTermMastery = 3

// MasteryTag labels how well a word is known
type MasteryTag string

const (
	TagNew      MasteryTag = "new"
	TagLearning MasteryTag = "learning"
	TagLongTerm MasteryTag = "long_term"
)

// Tag returns the mastery label for word
func Tag(history models.LearningHistory, word string) MasteryTag {
	record, ok := history[word]
	switch {
	case !ok:
		return TagNew
	case record.Mastery < LongTermMastery:
		return TagLearning
	default:
		return TagLongTerm
	}
}

// Summary aggregates a user's progress against the catalog
type Summary struct {
	CatalogSize int `json:"catalog_size"`
	Studied     int `json:"studied"`
	Due         int `json:"due"`
	New         int `json:"new"`
	Learning    int `json:"learning"`
	LongTerm    int `json:"long_term"`
}

// Summarize computes progress statistics at now
func Summarize(history models.LearningHistory, catalog []string, now time.Time) Summary {
	summary := Summary{Studied: len(history)}

	seen := make(map[string]bool, len(catalog))
	for _, word := range catalog {
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		summary.CatalogSize++
		if _, ok := history[word]; !ok {
			summary.New++
		}
	}

	for _, record := range history {
		if IsDue(record, now) {
			summary.Due++
		}
		if record.Mastery >= LongTermMastery {
			summary.LongTerm++
		} else {
			summary.Learning++
		}
	}
	return summary
}

// CountDue returns the number of studied words due at now
func CountDue(history models.LearningHistory, now time.Time) int {
	count := 0
	for _, record := range history {
		if IsDue(record, now) {
			count++
		}
	}
	return count
}
