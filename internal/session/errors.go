package session

import "errors"

var (
	// ErrNothingToStudy signals that no word is due and the catalog has no new words.
	// It is informational: the session stays in Setup.
	ErrNothingToStudy = errors.New("session: nothing to study")
	// ErrInvalidTransition is returned when an action does not apply to the current stage.
	ErrInvalidTransition = errors.New("session: invalid transition")
)
