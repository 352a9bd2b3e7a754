package spaced_repetition

import (
	"math/rand"
	"time"

	"github.com/example/vocabdrill/pkg/models"
)

// SelectBatch picks the words for the next study session.
//
// Due words are drawn first, up to DueQuota, and new catalog words fill the rest of
// the batch. Words that were studied but are not due yet are never selected. The
// result may be shorter than BatchSize, or empty when there is nothing to study.
func (s *Scheduler) SelectBatch(history models.LearningHistory, catalog []string, now time.Time, rnd *rand.Rand) ([]string, error) {
	if rnd == nil {
		return nil, ErrNilRandom
	}
	if s.BatchSize <= 0 {
		return []string{}, nil
	}

	due, fresh := partition(history, catalog, now)

	quota := s.DueQuota
	if quota > s.BatchSize {
		quota = s.BatchSize
	}

	selected := make([]string, 0, s.BatchSize)
	selected = append(selected, sample(rnd, due, quota)...)
	selected = append(selected, sample(rnd, fresh, s.BatchSize-len(selected))...)

	rnd.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected, nil
}

// partition splits catalog into due and new words, keeping catalog order
func partition(history models.LearningHistory, catalog []string, now time.Time) (due, fresh []string) {
	seen := make(map[string]bool, len(catalog))
	for _, word := range catalog {
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true

		record, studied := history[word]
		switch {
		case !studied:
			fresh = append(fresh, word)
		case IsDue(record, now):
			due = append(due, word)
		}
	}
	return due, fresh
}

// sample draws up to n words uniformly without replacement
func sample(rnd *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	picked := make([]string, 0, n)
	for _, idx := range rnd.Perm(len(pool))[:n] {
		picked = append(picked, pool[idx])
	}
	return picked
}
