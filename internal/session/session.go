// Package session drives a study session through Setup, Learning and Story.
//
// A Session is owned by a single caller and is not safe for concurrent use.
// The learning history is passed into each transition; the session writes graded
// records back into it and the caller persists it afterwards.
package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// Session holds the state of one study cycle
type Session struct {
	scheduler *spaced_repetition.Scheduler

	stage        Stage
	queue        []string
	sessionWords []string
	currentWord  string
	showAnswer   bool
	unknownWords []string
}

// Snapshot is a read-only copy of the session state
type Snapshot struct {
	Stage        Stage    `json:"stage"`
	Queue        []string `json:"queue"`
	SessionWords []string `json:"session_words"`
	CurrentWord  string   `json:"current_word,omitempty"`
	ShowAnswer   bool     `json:"show_answer"`
	UnknownWords []string `json:"unknown_words"`
}

// New creates a session in the Setup stage
func New(scheduler *spaced_repetition.Scheduler) *Session {
	return &Session{scheduler: scheduler, stage: StageSetup}
}

func (s *Session) Stage() Stage           { return s.stage }
func (s *Session) CurrentWord() string    { return s.currentWord }
func (s *Session) ShowAnswer() bool       { return s.showAnswer }
func (s *Session) Remaining() int         { return len(s.queue) }
func (s *Session) UnknownWords() []string { return append([]string(nil), s.unknownWords...) }
func (s *Session) SessionWords() []string { return append([]string(nil), s.sessionWords...) }

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Stage:        s.stage,
		Queue:        append([]string{}, s.queue...),
		SessionWords: append([]string{}, s.sessionWords...),
		CurrentWord:  s.currentWord,
		ShowAnswer:   s.showAnswer,
		UnknownWords: append([]string{}, s.unknownWords...),
	}
}

// Start selects a batch and moves to Learning with its first word.
// When there is nothing to study the session stays in Setup and ErrNothingToStudy is returned.
func (s *Session) Start(history models.LearningHistory, catalog []string, now time.Time, rnd *rand.Rand) error {
	if s.stage != StageSetup {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.stage)
	}

	batch, err := s.scheduler.SelectBatch(history, catalog, now, rnd)
	if err != nil {
		return fmt.Errorf("select batch: %w", err)
	}
	if len(batch) == 0 {
		return ErrNothingToStudy
	}

	s.sessionWords = append([]string(nil), batch...)
	s.queue = batch
	s.unknownWords = nil
	s.advance()
	s.stage = StageLearning
	return nil
}

// Reveal flips the current card to its answer side
func (s *Session) Reveal() error {
	if s.stage != StageLearning {
		return fmt.Errorf("%w: reveal in %s", ErrInvalidTransition, s.stage)
	}
	s.showAnswer = true
	return nil
}

// Grade records the review of the current word, writes the new record into history
// and moves to the next word, or to Story once the queue is exhausted.
// Only a revealed card can be graded. An invalid quality leaves both the session
// and the history untouched.
func (s *Session) Grade(history models.LearningHistory, quality models.Quality, now time.Time) (models.WordRecord, error) {
	if s.stage != StageLearning {
		return models.WordRecord{}, fmt.Errorf("%w: grade in %s", ErrInvalidTransition, s.stage)
	}
	if !s.showAnswer {
		return models.WordRecord{}, fmt.Errorf("%w: grade before reveal", ErrInvalidTransition)
	}

	word := s.currentWord
	record, err := s.scheduler.Grade(history.Get(word), quality, now)
	if err != nil {
		return models.WordRecord{}, err
	}
	history[word] = record

	if quality == models.QualityForgot && !contains(s.unknownWords, word) {
		s.unknownWords = append(s.unknownWords, word)
	}

	if len(s.queue) > 0 {
		s.advance()
	} else {
		s.currentWord = ""
		s.showAnswer = false
		s.stage = StageStory
	}
	return record, nil
}

// ReturnHome ends the Story stage and resets the session to Setup
func (s *Session) ReturnHome() error {
	if s.stage != StageStory {
		return fmt.Errorf("%w: return home from %s", ErrInvalidTransition, s.stage)
	}
	s.queue = nil
	s.sessionWords = nil
	s.currentWord = ""
	s.showAnswer = false
	s.unknownWords = nil
	s.stage = StageSetup
	return nil
}

// StoryWords returns the words a story should be built around: the words the user
// forgot in this session, or the whole batch when none were forgotten.
func (s *Session) StoryWords() []string {
	if len(s.unknownWords) > 0 {
		return s.UnknownWords()
	}
	return s.SessionWords()
}

// Progress returns how many words of the batch have been graded and the batch size
func (s *Session) Progress() (done, total int) {
	total = len(s.sessionWords)
	switch s.stage {
	case StageLearning:
		done = total - len(s.queue) - 1
	case StageStory:
		done = total
	}
	return done, total
}

func (s *Session) advance() {
	s.currentWord = s.queue[0]
	s.queue = s.queue[1:]
	s.showAnswer = false
}

func contains(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
