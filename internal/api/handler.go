// Package api exposes the drill as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/example/vocabdrill/internal/ai"
	"github.com/example/vocabdrill/internal/database"
	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/internal/session"
	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// Trainer is the drill service as seen by the API
type Trainer interface {
	Start(ctx context.Context, userID int64) (drill.View, error)
	Current(ctx context.Context, userID int64) (drill.View, error)
	Reveal(ctx context.Context, userID int64) (drill.View, error)
	Grade(ctx context.Context, userID int64, word string, quality models.Quality) (drill.View, error)
	Story(ctx context.Context, userID int64, theme, subTheme string) (drill.StoryView, error)
	Home(ctx context.Context, userID int64) (drill.View, error)
	Stats(ctx context.Context, userID int64) (spaced_repetition.Summary, error)
}

// UserStore keeps story preferences
type UserStore interface {
	Ensure(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateTheme(ctx context.Context, id int64, theme, subTheme string) error
}

// GradeRequest is the body of POST /session/grade.
// Word, when set, must be the card being graded.
type GradeRequest struct {
	Quality *int   `json:"quality" validate:"required,oneof=0 3 4 5"`
	Word    string `json:"word"`
}

// ThemeRequest is the body of PUT /theme
type ThemeRequest struct {
	Theme    string `json:"theme" validate:"required"`
	SubTheme string `json:"sub_theme"`
}

// ThemeResponse echoes the stored theme
type ThemeResponse struct {
	Theme    string `json:"theme"`
	SubTheme string `json:"sub_theme"`
}

// SessionHandler handles drill requests
type SessionHandler struct {
	trainer   Trainer
	users     UserStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(trainer Trainer, users UserStore, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		trainer:   trainer,
		users:     users,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "session_handler")),
	}
}

// Themes handles GET /themes
func (h *SessionHandler) Themes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, ai.Themes())
}

// Current handles GET /users/{userID}/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	h.viewAction(w, r, h.trainer.Current)
}

// Start handles POST /users/{userID}/session
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.viewAction(w, r, h.trainer.Start)
}

// Reveal handles POST /users/{userID}/session/reveal
func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.viewAction(w, r, h.trainer.Reveal)
}

// Home handles POST /users/{userID}/session/home
func (h *SessionHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.viewAction(w, r, h.trainer.Home)
}

// Grade handles POST /users/{userID}/session/grade
func (h *SessionHandler) Grade(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req GradeRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.trainer.Grade(r.Context(), userID, req.Word, models.Quality(*req.Quality))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// Story handles POST /users/{userID}/session/story using the user's stored theme
func (h *SessionHandler) Story(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var theme, subTheme string
	user, err := h.users.GetByID(r.Context(), userID)
	switch {
	case err == nil:
		theme, subTheme = user.Theme, user.SubTheme
	case !errors.Is(err, database.ErrUserNotFound):
		h.handleError(w, r, err)
		return
	}

	story, err := h.trainer.Story(r.Context(), userID, theme, subTheme)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, story)
}

// Stats handles GET /users/{userID}/stats
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	summary, err := h.trainer.Stats(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// SetTheme handles PUT /users/{userID}/theme
func (h *SessionHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req ThemeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if _, found := ai.FindTheme(req.Theme); !found {
		respondWithError(w, r, http.StatusBadRequest, "unknown theme")
		return
	}
	theme, subTheme := ai.ResolveTheme(req.Theme, req.SubTheme)

	if _, err := h.users.GetByID(r.Context(), userID); errors.Is(err, database.ErrUserNotFound) {
		if err := h.users.Ensure(r.Context(), &models.User{ID: userID}); err != nil {
			h.handleError(w, r, err)
			return
		}
	}
	if err := h.users.UpdateTheme(r.Context(), userID, theme, subTheme); err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ThemeResponse{Theme: theme, SubTheme: subTheme})
}

func (h *SessionHandler) viewAction(w http.ResponseWriter, r *http.Request, action func(context.Context, int64) (drill.View, error)) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	view, err := action(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, r, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return id, true
}

func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		respondWithError(w, r, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

// handleError maps drill errors to status codes
func (h *SessionHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNothingToStudy):
		respondWithError(w, r, http.StatusConflict, "nothing to study right now")
	case errors.Is(err, session.ErrInvalidTransition):
		respondWithError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, spaced_repetition.ErrInvalidQuality):
		respondWithError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, drill.ErrNarratorUnavailable):
		respondWithError(w, r, http.StatusServiceUnavailable, "story generation is not configured")
	case errors.Is(err, drill.ErrNoStoryWords):
		respondWithError(w, r, http.StatusConflict, "no words for a story")
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		respondWithError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
