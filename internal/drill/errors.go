package drill

import "errors"

var (
	ErrNoStoryWords        = errors.New("drill: no words for a story")
	ErrNarratorUnavailable = errors.New("drill: story generation is not configured")
)
