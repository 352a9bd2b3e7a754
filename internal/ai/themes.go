package ai

// Theme is a story genre with a few concrete settings
type Theme struct {
	Name      string   `json:"name"`
	SubThemes []string `json:"sub_themes"`
}

var themes = []Theme{
	{Name: "Workplace Life", SubThemes: []string{"Office Anecdotes", "Career Planning", "Colleague Relationships"}},
	{Name: "Sci-Fi Adventure", SubThemes: []string{"Alien Exploration", "Future Technology", "Parallel Worlds"}},
	{Name: "Everyday Food", SubThemes: []string{"Cooking Together", "Street Food", "Food Culture"}},
	{Name: "Travel Stories", SubThemes: []string{"Foreign Cultures", "Natural Landscapes", "City Exploration"}},
	{Name: "Detective Mystery", SubThemes: []string{"Suspense Cases", "Logic Puzzles", "Mind Games"}},
	{Name: "Personal Growth", SubThemes: []string{"Self Improvement", "Emotional Healing", "Life Reflections"}},
	{Name: "Art and Creativity", SubThemes: []string{"Creative Work", "Cultural Observation", "Sources of Inspiration"}},
	{Name: "Society and Humanities", SubThemes: []string{"Historical Tales", "Social Observation", "Biographies"}},
	{Name: "Technology and the Future", SubThemes: []string{"AI and New Tech", "Future Living", "Digital Culture"}},
	{Name: "Nature and Animals", SubThemes: []string{"Animal Trivia", "Environmental Issues", "Nature Exploration"}},
	{Name: "Fun and Entertainment", SubThemes: []string{"Gaming Life", "Movies and Shows", "Funny Episodes"}},
	{Name: "Sports and Health", SubThemes: []string{"Fitness Tips", "Sporting Events", "Healthy Living"}},
	{Name: "Education and Learning", SubThemes: []string{"Study Methods", "Knowledge Sharing", "Language Discovery"}},
	{Name: "Finance and Money", SubThemes: []string{"Investing", "Business Trends", "Consumer Culture"}},
	{Name: "Relationships", SubThemes: []string{"Friendship", "Romance", "Family Life"}},
	{Name: "Culture and Tradition", SubThemes: []string{"Festivals and Customs", "Folk Tales", "Religious Culture"}},
	{Name: "Startups and Challenges", SubThemes: []string{"Business Ideas", "Founder Journeys", "Success Stories"}},
	{Name: "Humor and Comedy", SubThemes: []string{"Awkward Moments", "Dad Jokes", "Funny Stories"}},
	{Name: "Fantasy Worlds", SubThemes: []string{"Magic Quests", "Myths and Legends", "Otherworld Journeys"}},
	{Name: "Psychology and Thinking", SubThemes: []string{"Cognitive Biases", "Personality Quizzes", "Thinking Patterns"}},
}

// Themes returns every available story theme
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// DefaultTheme is used when the learner never picked one
func DefaultTheme() Theme {
	return themes[0]
}

// FindTheme looks up a theme by name
func FindTheme(name string) (Theme, bool) {
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// ResolveTheme returns a valid theme and sub-theme, replacing unknown values with defaults
func ResolveTheme(name, subTheme string) (string, string) {
	theme, ok := FindTheme(name)
	if !ok {
		theme = DefaultTheme()
	}
	for _, s := range theme.SubThemes {
		if s == subTheme {
			return theme.Name, subTheme
		}
	}
	return theme.Name, theme.SubThemes[0]
}
