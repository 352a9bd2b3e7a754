package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ChatGPT represents a client for the OpenAI chat completions API
type ChatGPT struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewChatGPT creates a new ChatGPT client
func NewChatGPT(apiKey, model string) *ChatGPT {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &ChatGPT{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		model:       model,
		maxTokens:   600, // Story plus its translation
		temperature: 0.8, // Higher temperature for more creativity
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Story generates a story for req
func (c *ChatGPT) Story(ctx context.Context, req StoryRequest) (string, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return "", err
	}

	request := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	story := strings.TrimSpace(response.Choices[0].Message.Content)
	if story == "" {
		return "", ErrEmptyResponse
	}
	return story, nil
}
