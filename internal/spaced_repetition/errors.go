package spaced_repetition

import "errors"

var (
	// ErrInvalidQuality is returned by Grade for anything other than 0, 3, 4 or 5.
	ErrInvalidQuality = errors.New("spaced_repetition: invalid quality")
	// ErrNilRandom is returned by SelectBatch when no random source was supplied.
	ErrNilRandom = errors.New("spaced_repetition: nil random source")
)
