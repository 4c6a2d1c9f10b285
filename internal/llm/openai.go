// Package llm provides the chat backend used by the generation endpoint:
// an OpenAI-compatible HTTP client and a deterministic offline generator.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// Generator produces the 3-2-1 reflection text for a prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// HTTPClient abstracts *http.Client for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenAI calls an OpenAI-compatible chat-completions endpoint.
type OpenAI struct {
	apiKey  string
	baseURL string
	model   string
	client  HTTPClient
}

// NewOpenAI builds the client. An empty baseURLOverride targets the public
// API; overrides are normalized to end in /chat/completions.
func NewOpenAI(apiKey, baseURLOverride, model string) *OpenAI {
	return NewOpenAIWithClient(apiKey, baseURLOverride, model, &http.Client{})
}

// NewOpenAIWithClient injects the HTTP client (for testing).
func NewOpenAIWithClient(apiKey, baseURLOverride, model string, client HTTPClient) *OpenAI {
	baseURL := baseURLOverride
	if baseURL == "" {
		baseURL = openaiAPIURL
	} else {
		baseURL = strings.TrimRight(baseURL, "/")
		if !strings.HasSuffix(baseURL, "/chat/completions") {
			if strings.HasSuffix(baseURL, "/v1") {
				baseURL += "/chat/completions"
			} else {
				baseURL += "/v1/chat/completions"
			}
		}
	}
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  client,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends one non-streaming chat completion.
func (o *OpenAI) Generate(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat backend: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("chat backend: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var parsed chatResponse
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != nil {
			return "", fmt.Errorf("chat backend: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("chat backend: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("chat backend: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat backend: empty completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ Generator = (*OpenAI)(nil)
