package session

import "fmt"

// Stage is the step of the study cycle a session is in
type Stage int

const (
	StageSetup Stage = iota
	StageLearning
	StageStory
)

var stageNames = [...]string{
	StageSetup:    "setup",
	StageLearning: "learning",
	StageStory:    "story",
}

func (s Stage) String() string {
	if s >= StageSetup && s <= StageStory {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler so stages serialize by name
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
