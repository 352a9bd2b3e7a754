package drill

import (
	"github.com/example/vocabdrill/internal/session"
	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// View is what a transport renders after each action
type View struct {
	SessionID    string                       `json:"session_id,omitempty"`
	Stage        session.Stage                `json:"stage"`
	Word         string                       `json:"word,omitempty"`
	Tag          spaced_repetition.MasteryTag `json:"tag,omitempty"`
	ShowAnswer   bool                         `json:"show_answer"`
	Info         *models.WordInfo             `json:"info,omitempty"`
	Done         int                          `json:"done"`
	Total        int                          `json:"total"`
	UnknownWords []string                     `json:"unknown_words,omitempty"`
	SessionWords []string                     `json:"session_words,omitempty"`
	// StoryAvailable is set when a story can be generated for the session
	StoryAvailable bool `json:"story_available"`
}

// StoryView is the result of a story request
type StoryView struct {
	Theme    string   `json:"theme"`
	SubTheme string   `json:"sub_theme"`
	Words    []string `json:"words"`
	Unknown  []string `json:"unknown,omitempty"`
	Text     string   `json:"text"`
}

func (s *Service) view(st *userState) View {
	done, total := st.session.Progress()
	v := View{
		SessionID:  st.id,
		Stage:      st.session.Stage(),
		Word:       st.session.CurrentWord(),
		ShowAnswer: st.session.ShowAnswer(),
		Done:       done,
		Total:      total,
	}
	if v.Word != "" {
		v.Tag = spaced_repetition.Tag(st.history, v.Word)
	}
	if v.ShowAnswer && st.card != nil {
		info := *st.card
		v.Info = &info
	}
	if v.Stage == session.StageStory {
		v.UnknownWords = st.session.UnknownWords()
		v.SessionWords = st.session.SessionWords()
		v.StoryAvailable = s.narrator != nil
	}
	return v
}
