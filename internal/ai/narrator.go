// Package ai generates short stories that reuse the words of a finished session.
package ai

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"text/template"
)

var (
	ErrEmptyWords     = errors.New("ai: no words to build a story from")
	ErrEmptyResponse  = errors.New("ai: model returned no text")
	ErrContentBlocked = errors.New("ai: content blocked by safety filters")
)

// StoryRequest describes the story to generate
type StoryRequest struct {
	Theme    string
	SubTheme string
	// Words the story must contain, in session order
	Words []string
	// Words the learner forgot; the story gives extra context clues for them
	Unknown []string
	// Language of the full translation appended to the story
	Language string
}

// Narrator turns a word list into a short story
type Narrator interface {
	Story(ctx context.Context, req StoryRequest) (string, error)
}

const systemPrompt = "You are an experienced English teacher who writes short stories that help learners remember new vocabulary in context."

var storyTemplate = template.Must(template.New("story").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`Write a story in English about "{{.Theme}}{{if .SubTheme}} - {{.SubTheme}}{{end}}" of about 120-150 words.
It must naturally include these {{len .Words}} words: {{join .Words ", "}}.

Requirements:
1. Mark every listed word in Markdown bold (**word**).
{{- if .Unknown}}
2. The learner does not know these words yet: {{join .Unknown ", "}}. Give extra context clues that make their meaning clear.
{{- else}}
2. Use each word in a sentence that makes its meaning clear.
{{- end}}
3. Keep the plot coherent and the language fluent.
4. Append a full translation into {{.Language}}.`))

// BuildPrompt renders the story prompt for req
func BuildPrompt(req StoryRequest) (string, error) {
	if len(req.Words) == 0 {
		return "", ErrEmptyWords
	}
	if req.Theme == "" {
		req.Theme = DefaultTheme().Name
	}
	if req.Language == "" {
		req.Language = "Traditional Chinese"
	}

	var buf bytes.Buffer
	if err := storyTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
