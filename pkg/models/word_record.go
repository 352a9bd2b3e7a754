package models

import "time"

// WordRecord tracks a user's learning state for a single word
type WordRecord struct {
	Mastery    int       `json:"mastery"`     // Consecutive successful recalls since the last reset
	Seen       int       `json:"seen"`        // Number of graded reviews
	Interval   int       `json:"interval"`    // Days until the next review
	NextReview time.Time `json:"next_review"` // Instant the word becomes due again
}

// LearningHistory maps a word to the user's record for it.
// Keys are case-sensitive. A word absent from the history has never been studied.
type LearningHistory map[string]WordRecord

// Clone returns an independent copy of the history
func (h LearningHistory) Clone() LearningHistory {
	clone := make(LearningHistory, len(h))
	for word, record := range h {
		clone[word] = record
	}
	return clone
}

// Get returns the record for word, or nil if the word is new
func (h LearningHistory) Get(word string) *WordRecord {
	record, ok := h[word]
	if !ok {
		return nil
	}
	return &record
}
