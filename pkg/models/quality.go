package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality is the grade a user assigns to a recall attempt
type Quality int

const (
	// Could not recall the word
	QualityForgot Quality = 0
	// Recalled with significant effort
	QualityHard Quality = 3
	// Recalled after some hesitation
	QualityGood Quality = 4
	// Recalled without hesitation
	QualityEasy Quality = 5
)

var qualityNames = map[Quality]string{
	QualityForgot: "forgot",
	QualityHard:   "hard",
	QualityGood:   "good",
	QualityEasy:   "easy",
}

// IsValid reports whether q is one of the accepted grades
func (q Quality) IsValid() bool {
	_, ok := qualityNames[q]
	return ok
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// ParseQuality accepts either the numeric grade ("4") or its name ("good")
func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		q := Quality(n)
		if !q.IsValid() {
			return 0, fmt.Errorf("unknown quality %d", n)
		}
		return q, nil
	}
	for q, name := range qualityNames {
		if name == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unknown quality %q", s)
}
