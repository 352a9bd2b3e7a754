// Package dictionary fetches the definition shown on the back of a card.
package dictionary

import (
	"context"
	"errors"

	"github.com/example/vocabdrill/pkg/models"
)

var (
	ErrEmptyWord    = errors.New("dictionary: empty word")
	ErrWordNotFound = errors.New("dictionary: word not found")
)

// LookupResult contains the result of a dictionary lookup.
type LookupResult struct {
	Word          string
	Pronunciation string
	AudioURL      string
	Definitions   []Definition
}

// Definition is one sense of a word.
type Definition struct {
	PartOfSpeech string
	Definition   string
	Example      string
}

// Client defines the interface for dictionary API providers.
type Client interface {
	Lookup(ctx context.Context, word string) (*LookupResult, error)
	Name() string
}

// ToWordInfo converts a lookup result into the card payload, using the first
// definition that has an example when one exists.
func ToWordInfo(word string, result *LookupResult) models.WordInfo {
	if result == nil || len(result.Definitions) == 0 {
		return models.DegradedWordInfo(word)
	}

	info := models.WordInfo{
		Word:       word,
		Phonetic:   result.Pronunciation,
		AudioURL:   result.AudioURL,
		Definition: result.Definitions[0].Definition,
		Example:    result.Definitions[0].Example,
	}
	if info.Example == "" {
		for _, def := range result.Definitions[1:] {
			if def.Example != "" {
				info.Example = def.Example
				break
			}
		}
	}
	if info.Phonetic == "" {
		info.Phonetic = "/.../"
	}
	return info
}
