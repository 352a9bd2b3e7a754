// Package drill runs study sessions for many users on top of the session state machine.
//
// Every action of one user is serialized; different users proceed in parallel.
// History is cached in memory after the first load and a copy is persisted after each grade.
package drill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/vocabdrill/internal/ai"
	"github.com/example/vocabdrill/internal/dictionary"
	"github.com/example/vocabdrill/internal/session"
	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// HistoryStore persists learning histories per user
type HistoryStore interface {
	Load(ctx context.Context, userID int64) (models.LearningHistory, error)
	Save(ctx context.Context, userID int64, history models.LearningHistory) error
}

// Clock returns the current time
type Clock func() time.Time

// Options configures a Service. Narrator may be nil.
type Options struct {
	Scheduler  *spaced_repetition.Scheduler
	Catalog    []string
	History    HistoryStore
	Dictionary dictionary.Client
	Narrator   ai.Narrator
	Language   string
	Clock      Clock
	Rand       *rand.Rand
	Logger     *slog.Logger
}

// Service coordinates sessions, persistence, lookups and stories
type Service struct {
	scheduler  *spaced_repetition.Scheduler
	catalog    []string
	history    HistoryStore
	dictionary dictionary.Client
	narrator   ai.Narrator
	language   string
	clock      Clock
	logger     *slog.Logger

	randMu sync.Mutex
	rnd    *rand.Rand

	mu    sync.Mutex
	users map[int64]*userState
}

type userState struct {
	mu      sync.Mutex
	history models.LearningHistory
	session *session.Session
	id      string
	// card caches the lookup of the current word
	card  *models.WordInfo
	story string
}

// NewService creates a Service
func NewService(opts Options) (*Service, error) {
	if opts.History == nil {
		return nil, errors.New("history store cannot be nil")
	}
	if opts.Dictionary == nil {
		return nil, errors.New("dictionary client cannot be nil")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = spaced_repetition.NewScheduler()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Service{
		scheduler:  opts.Scheduler,
		catalog:    append([]string(nil), opts.Catalog...),
		history:    opts.History,
		dictionary: opts.Dictionary,
		narrator:   opts.Narrator,
		language:   opts.Language,
		clock:      opts.Clock,
		logger:     opts.Logger,
		rnd:        opts.Rand,
		users:      make(map[int64]*userState),
	}, nil
}

// CatalogSize returns the number of catalog entries the service draws from
func (s *Service) CatalogSize() int {
	return len(s.catalog)
}

// HasNarrator reports whether stories can be generated
func (s *Service) HasNarrator() bool {
	return s.narrator != nil
}

// Start selects a new batch and shows its first card
func (s *Service) Start(ctx context.Context, userID int64) (View, error) {
	return s.withUser(ctx, userID, func(st *userState) (View, error) {
		s.randMu.Lock()
		err := st.session.Start(st.history, s.catalog, s.clock(), s.rnd)
		s.randMu.Unlock()
		if err != nil {
			return s.view(st), err
		}

		st.id = uuid.NewString()
		st.card = nil
		st.story = ""
		s.logger.Info("session started",
			"user_id", userID,
			"session_id", st.id,
			"words", len(st.session.SessionWords()))
		return s.view(st), nil
	})
}

// Current returns the state of the user's session without changing it
func (s *Service) Current(ctx context.Context, userID int64) (View, error) {
	return s.withUser(ctx, userID, func(st *userState) (View, error) {
		return s.view(st), nil
	})
}

// Reveal shows the answer side of the current card
func (s *Service) Reveal(ctx context.Context, userID int64) (View, error) {
	return s.withUser(ctx, userID, func(st *userState) (View, error) {
		if err := st.session.Reveal(); err != nil {
			return s.view(st), err
		}
		if st.card == nil {
			info := s.lookup(ctx, st.session.CurrentWord())
			st.card = &info
		}
		return s.view(st), nil
	})
}

// Grade records the review of the current card and persists the history.
// When word is not empty it must name the current card, so a grade sent for an
// earlier card is refused with session.ErrInvalidTransition.
// A failed save is logged; the in-memory history stays authoritative.
func (s *Service) Grade(ctx context.Context, userID int64, word string, quality models.Quality) (View, error) {
	return s.withUser(ctx, userID, func(st *userState) (View, error) {
		current := st.session.CurrentWord()
		if word != "" && word != current {
			return s.view(st), fmt.Errorf("%w: %q is not the current card", session.ErrInvalidTransition, word)
		}
		word = current
		record, err := st.session.Grade(st.history, quality, s.clock())
		if err != nil {
			return s.view(st), err
		}
		st.card = nil

		s.logger.Debug("word graded",
			"user_id", userID,
			"session_id", st.id,
			"word", word,
			"quality", quality.String(),
			"mastery", record.Mastery,
			"interval", record.Interval)

		if err := s.history.Save(ctx, userID, st.history.Clone()); err != nil {
			s.logger.Error("failed to save history", "user_id", userID, "error", err)
		}
		return s.view(st), nil
	})
}

// Story generates, once per session, a story built around the session's words
func (s *Service) Story(ctx context.Context, userID int64, theme, subTheme string) (StoryView, error) {
	var result StoryView
	_, err := s.withUser(ctx, userID, func(st *userState) (View, error) {
		if st.session.Stage() != session.StageStory {
			return View{}, fmt.Errorf("%w: story in %s", session.ErrInvalidTransition, st.session.Stage())
		}

		words := st.session.StoryWords()
		if len(words) == 0 {
			return View{}, ErrNoStoryWords
		}
		theme, subTheme = ai.ResolveTheme(theme, subTheme)
		result = StoryView{
			Theme:    theme,
			SubTheme: subTheme,
			Words:    words,
			Unknown:  st.session.UnknownWords(),
			Text:     st.story,
		}
		if st.story != "" {
			return View{}, nil
		}
		if s.narrator == nil {
			return View{}, ErrNarratorUnavailable
		}

		text, err := s.narrator.Story(ctx, ai.StoryRequest{
			Theme:    theme,
			SubTheme: subTheme,
			Words:    words,
			Unknown:  result.Unknown,
			Language: s.language,
		})
		if err != nil {
			s.logger.Error("story generation failed", "user_id", userID, "session_id", st.id, "error", err)
			return View{}, fmt.Errorf("generate story: %w", err)
		}
		st.story = text
		result.Text = text
		return View{}, nil
	})
	return result, err
}

// Home ends the Story stage and returns to Setup
func (s *Service) Home(ctx context.Context, userID int64) (View, error) {
	return s.withUser(ctx, userID, func(st *userState) (View, error) {
		if err := st.session.ReturnHome(); err != nil {
			return s.view(st), err
		}
		s.logger.Info("session finished", "user_id", userID, "session_id", st.id)
		st.id = ""
		st.card = nil
		st.story = ""
		return s.view(st), nil
	})
}

// Stats summarizes the user's progress against the catalog
func (s *Service) Stats(ctx context.Context, userID int64) (spaced_repetition.Summary, error) {
	var summary spaced_repetition.Summary
	_, err := s.withUser(ctx, userID, func(st *userState) (View, error) {
		summary = spaced_repetition.Summarize(st.history, s.catalog, s.clock())
		return View{}, nil
	})
	return summary, err
}

func (s *Service) withUser(ctx context.Context, userID int64, fn func(*userState) (View, error)) (View, error) {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.history == nil {
		history, err := s.history.Load(ctx, userID)
		if err != nil {
			return View{}, fmt.Errorf("load history: %w", err)
		}
		if history == nil {
			history = make(models.LearningHistory)
		}
		st.history = history
	}
	return fn(st)
}

func (s *Service) state(userID int64) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.users[userID]
	if !ok {
		st = &userState{session: session.New(s.scheduler)}
		s.users[userID] = st
	}
	return st
}

func (s *Service) lookup(ctx context.Context, word string) models.WordInfo {
	result, err := s.dictionary.Lookup(ctx, word)
	if err != nil {
		s.logger.Warn("dictionary lookup failed",
			"word", word,
			"provider", s.dictionary.Name(),
			"error", err)
		return models.DegradedWordInfo(word)
	}
	return dictionary.ToWordInfo(word, result)
}
