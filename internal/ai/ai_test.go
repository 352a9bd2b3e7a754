package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(StoryRequest{
		Theme:    "Travel Stories",
		SubTheme: "City Exploration",
		Words:    []string{"harbor", "lantern"},
		Unknown:  []string{"lantern"},
		Language: "Japanese",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, `"Travel Stories - City Exploration"`)
	assert.Contains(t, prompt, "harbor, lantern")
	assert.Contains(t, prompt, "does not know these words yet: lantern")
	assert.Contains(t, prompt, "**word**")
	assert.Contains(t, prompt, "translation into Japanese")
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt, err := BuildPrompt(StoryRequest{Words: []string{"apple"}})
	require.NoError(t, err)

	assert.Contains(t, prompt, DefaultTheme().Name)
	assert.Contains(t, prompt, "Traditional Chinese")
	assert.NotContains(t, prompt, "does not know")
}

func TestBuildPromptNoWords(t *testing.T) {
	_, err := BuildPrompt(StoryRequest{Theme: "Travel Stories"})
	assert.ErrorIs(t, err, ErrEmptyWords)
}

func TestThemes(t *testing.T) {
	all := Themes()
	require.Len(t, all, 20)
	for _, theme := range all {
		assert.Len(t, theme.SubThemes, 3, theme.Name)
	}

	// Callers get a copy
	all[0].Name = "changed"
	assert.Equal(t, "Workplace Life", Themes()[0].Name)

	theme, ok := FindTheme("Fantasy Worlds")
	require.True(t, ok)
	assert.Contains(t, theme.SubThemes, "Magic Quests")

	_, ok = FindTheme("nope")
	assert.False(t, ok)
}

func TestResolveTheme(t *testing.T) {
	name, sub := ResolveTheme("Detective Mystery", "Logic Puzzles")
	assert.Equal(t, "Detective Mystery", name)
	assert.Equal(t, "Logic Puzzles", sub)

	name, sub = ResolveTheme("Detective Mystery", "Cooking Together")
	assert.Equal(t, "Detective Mystery", name)
	assert.Equal(t, "Suspense Cases", sub)

	name, sub = ResolveTheme("", "")
	assert.Equal(t, "Workplace Life", name)
	assert.Equal(t, "Office Anecdotes", sub)
}

func TestChatGPTStory(t *testing.T) {
	var got ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Once upon a **time**.  "}}]}`))
	}))
	defer server.Close()

	c := NewChatGPT("key", "")
	c.apiURL = server.URL

	story, err := c.Story(context.Background(), StoryRequest{Words: []string{"time"}})
	require.NoError(t, err)
	assert.Equal(t, "Once upon a **time**.", story)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "time")
}

func TestChatGPTErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "no choices", body: `{"choices":[]}`, want: ErrEmptyResponse},
		{name: "blank content", body: `{"choices":[{"message":{"content":"  "}}]}`, want: ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewChatGPT("key", "gpt-4o-mini")
			c.apiURL = server.URL
			_, err := c.Story(context.Background(), StoryRequest{Words: []string{"a"}})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
		}))
		defer server.Close()

		c := NewChatGPT("key", "")
		c.apiURL = server.URL
		_, err := c.Story(context.Background(), StoryRequest{Words: []string{"a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad key")
	})

	assert.Nil(t, NewChatGPT("", ""))
}

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiNarratorStory(t *testing.T) {
	fake := &fakeModels{resp: textResponse("A **cat** ", "sat.")}
	g := &GeminiNarrator{logger: slog.New(slog.NewTextHandler(io.Discard, nil)), models: fake, model: "gemini-2.0-flash"}

	story, err := g.Story(context.Background(), StoryRequest{Words: []string{"cat"}})
	require.NoError(t, err)
	assert.Equal(t, "A **cat** sat.", story)
	assert.Equal(t, "gemini-2.0-flash", fake.model)
	assert.Contains(t, fake.prompt, "cat")
}

func TestGeminiNarratorErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	boom := errors.New("boom")

	tests := []struct {
		name string
		fake *fakeModels
		want error
	}{
		{name: "transport", fake: &fakeModels{err: boom}, want: boom},
		{name: "nil response", fake: &fakeModels{}, want: ErrEmptyResponse},
		{name: "empty text", fake: &fakeModels{resp: textResponse(" ")}, want: ErrEmptyResponse},
		{name: "blocked", fake: &fakeModels{resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}}, want: ErrContentBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &GeminiNarrator{logger: logger, models: tt.fake, model: "m"}
			_, err := g.Story(context.Background(), StoryRequest{Words: []string{"x"}})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewGeminiNarratorValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewGeminiNarrator(context.Background(), nil, "k", "m")
	assert.Error(t, err)
	_, err = NewGeminiNarrator(context.Background(), logger, "", "m")
	assert.Error(t, err)
	_, err = NewGeminiNarrator(context.Background(), logger, "k", "")
	assert.Error(t, err)
}
