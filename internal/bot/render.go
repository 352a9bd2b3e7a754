package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/vocabdrill/internal/ai"
	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/internal/spaced_repetition"
	"github.com/example/vocabdrill/pkg/models"
)

// Constants for callback data
const (
	callbackMainMenu      = "main_menu"
	callbackStartLearning = "start_learning"
	callbackReveal        = "reveal"
	callbackGradePrefix   = "grade_"
	callbackStory         = "story"
	callbackHome          = "home"
	callbackStats         = "show_stats"
	callbackThemes        = "themes"
	callbackThemePrefix   = "theme_"
	callbackSubPrefix     = "subtheme_"
	callbackNotifyOn      = "notify_on"
	callbackNotifyOff     = "notify_off"

	// Telegram rejects callback data longer than this
	maxCallbackData = 64
)

var gradeButtons = []struct {
	label   string
	quality models.Quality
}{
	{"😵 Forgot", models.QualityForgot},
	{"😓 Hard", models.QualityHard},
	{"🙂 Good", models.QualityGood},
	{"😎 Easy", models.QualityEasy},
}

var tagLabels = map[spaced_repetition.MasteryTag]string{
	spaced_repetition.TagNew:      "🆕 New",
	spaced_repetition.TagLearning: "🌱 Learning",
	spaced_repetition.TagLongTerm: "🧠 Long-term",
}

func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 Start learning", CallbackData: callbackStartLearning}},
		{{Text: "📊 Statistics", CallbackData: callbackStats}, {Text: "🎭 Story theme", CallbackData: callbackThemes}},
	}
}

func cardButtons(view drill.View) [][]MenuButton {
	if !view.ShowAnswer {
		return [][]MenuButton{{{Text: "👀 Show answer", CallbackData: callbackReveal}}}
	}
	row := make([]MenuButton, 0, len(gradeButtons))
	for _, g := range gradeButtons {
		row = append(row, MenuButton{Text: g.label, CallbackData: gradeData(g.quality, view.Word)})
	}
	return [][]MenuButton{row}
}

// gradeData encodes "grade_<quality>_<word>" so a tap on an old card cannot grade the current one.
// Words too long for a callback are left out and only the reveal check applies.
func gradeData(quality models.Quality, word string) string {
	data := callbackGradePrefix + strconv.Itoa(int(quality))
	if withWord := data + "_" + word; len(withWord) <= maxCallbackData {
		return withWord
	}
	return data
}

func storyButtons(narrator bool) [][]MenuButton {
	var rows [][]MenuButton
	if narrator {
		rows = append(rows, []MenuButton{{Text: "📝 Write a story", CallbackData: callbackStory}})
	}
	return append(rows, []MenuButton{{Text: "🏠 Back home", CallbackData: callbackHome}})
}

func themeButtons() [][]MenuButton {
	var rows [][]MenuButton
	var row []MenuButton
	for i, theme := range ai.Themes() {
		row = append(row, MenuButton{Text: theme.Name, CallbackData: callbackThemePrefix + strconv.Itoa(i)})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return append(rows, []MenuButton{{Text: "⬅️ Back", CallbackData: callbackMainMenu}})
}

func subThemeButtons(themeIdx int) [][]MenuButton {
	themes := ai.Themes()
	if themeIdx < 0 || themeIdx >= len(themes) {
		return nil
	}
	var rows [][]MenuButton
	for j, sub := range themes[themeIdx].SubThemes {
		rows = append(rows, []MenuButton{{
			Text:         sub,
			CallbackData: fmt.Sprintf("%s%d_%d", callbackSubPrefix, themeIdx, j),
		}})
	}
	return append(rows, []MenuButton{{Text: "⬅️ Back", CallbackData: callbackThemes}})
}

// parseSubTheme decodes "subtheme_<theme>_<sub>" into names
func parseSubTheme(data string) (string, string, bool) {
	parts := strings.Split(strings.TrimPrefix(data, callbackSubPrefix), "_")
	if len(parts) != 2 {
		return "", "", false
	}
	i, err1 := strconv.Atoi(parts[0])
	j, err2 := strconv.Atoi(parts[1])
	themes := ai.Themes()
	if err1 != nil || err2 != nil || i < 0 || i >= len(themes) || j < 0 || j >= len(themes[i].SubThemes) {
		return "", "", false
	}
	return themes[i].Name, themes[i].SubThemes[j], true
}

// parseGrade decodes gradeData; word is empty for callbacks without one
func parseGrade(data string) (models.Quality, string, bool) {
	parts := strings.SplitN(strings.TrimPrefix(data, callbackGradePrefix), "_", 2)
	q, err := models.ParseQuality(parts[0])
	if err != nil {
		return 0, "", false
	}
	if len(parts) == 2 {
		return q, parts[1], true
	}
	return q, "", true
}

func cardText(view drill.View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 Word %d/%d · %s\n\n", view.Done+1, view.Total, tagLabels[view.Tag])
	fmt.Fprintf(&sb, "*%s*\n", view.Word)

	if !view.ShowAnswer || view.Info == nil {
		sb.WriteString("\nDo you remember this word?")
		return sb.String()
	}

	info := view.Info
	sb.WriteString(info.Phonetic + "\n\n")
	sb.WriteString("📘 " + info.Definition + "\n")
	if info.Example != "" {
		sb.WriteString("\n💬 _" + info.Example + "_\n")
	}
	sb.WriteString("\nHow well did you recall it?")
	return sb.String()
}

func storyStageText(view drill.View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 Session complete! You reviewed %d words.\n", len(view.SessionWords))
	if len(view.UnknownWords) > 0 {
		sb.WriteString("\nWords to work on: " + strings.Join(view.UnknownWords, ", "))
	} else {
		sb.WriteString("\nYou remembered every word.")
	}
	return sb.String()
}

func storyText(story drill.StoryView) string {
	return fmt.Sprintf("🎭 %s · %s\n\n%s", story.Theme, story.SubTheme, toTelegramMarkdown(story.Text))
}

func statsText(s spaced_repetition.Summary) string {
	return fmt.Sprintf("📊 Your progress\n\n"+
		"Words in catalog: %d\n"+
		"Studied: %d\n"+
		"Due for review: %d\n"+
		"Not seen yet: %d\n"+
		"Learning: %d\n"+
		"Long-term memory: %d",
		s.CatalogSize, s.Studied, s.Due, s.New, s.Learning, s.LongTerm)
}

func reminderText(count int) string {
	noun := "words"
	if count == 1 {
		noun = "word"
	}
	return fmt.Sprintf("⏰ You have %d %s due for review. Tap Start learning to begin.", count, noun)
}

// toTelegramMarkdown turns **bold** into Telegram's *bold*
func toTelegramMarkdown(text string) string {
	return strings.ReplaceAll(text, "**", "*")
}

func stripMarkdown(text string) string {
	return strings.NewReplacer("*", "", "_", "", "`", "").Replace(text)
}
