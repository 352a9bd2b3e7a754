package models

// WordInfo is the display payload shown on the back of a card
type WordInfo struct {
	Word       string `json:"word"`
	Phonetic   string `json:"phonetic"`
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
	AudioURL   string `json:"audio_url,omitempty"`
	Degraded   bool   `json:"degraded"` // Set when the lookup failed and this is a placeholder
}

// DegradedWordInfo returns the placeholder used when no definition could be fetched
func DegradedWordInfo(word string) WordInfo {
	return WordInfo{
		Word:       word,
		Phonetic:   "/.../",
		Definition: "No detailed definition available (see the story below)",
		Degraded:   true,
	}
}
