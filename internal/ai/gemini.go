package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// contentGenerator is the part of the genai client the narrator uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiNarrator writes stories with Google's Gemini API
type GeminiNarrator struct {
	logger *slog.Logger
	models contentGenerator
	model  string
}

// NewGeminiNarrator creates a Gemini-backed narrator
func NewGeminiNarrator(ctx context.Context, logger *slog.Logger, apiKey, model string) (*GeminiNarrator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiNarrator{logger: logger, models: client.Models, model: model}, nil
}

// Story generates a story for req
func (g *GeminiNarrator) Story(ctx context.Context, req StoryRequest) (string, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}

	g.logger.Debug("requesting story", "model", g.model, "words", len(req.Words))
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0] != nil &&
		resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}

	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
		// Only the first candidate is used
		break
	}
	return strings.TrimSpace(sb.String())
}
