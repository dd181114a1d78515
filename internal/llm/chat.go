package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// chatClient talks to an OpenAI-compatible chat completions endpoint.
// Both OpenAI and DeepSeek expose the same request and response shape,
// so they share this implementation.
type chatClient struct {
	provider string
	baseURL  string
	apiKey   string
	model    string
	http     *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *chatClient) Name() string { return c.provider }

func (c *chatClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: generationTemperature,
		MaxTokens:   maxOutputTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &APIError{Provider: c.provider, Kind: KindBadResponse, Message: "encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Provider: c.provider, Kind: KindBadResponse, Message: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &APIError{Provider: c.provider, Kind: KindTransient, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &APIError{Provider: c.provider, Kind: KindTransient, Message: "read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Kind:       ClassifyStatus(resp.StatusCode, string(raw)),
			Message:    fmt.Sprintf("completion request returned status %d", resp.StatusCode),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &APIError{Provider: c.provider, Kind: KindBadResponse, Message: "decode response", Cause: err}
	}
	if parsed.Error != nil {
		return "", &APIError{Provider: c.provider, Kind: KindBadResponse, Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &APIError{Provider: c.provider, Kind: KindBadResponse, Message: "empty completion"}
	}
	return parsed.Choices[0].Message.Content, nil
}

// OpenAI creates a provider backed by the OpenAI chat completions API.
func OpenAI(apiKey string) Provider {
	return &chatClient{
		provider: "OpenAI",
		baseURL:  "https://api.openai.com/v1",
		apiKey:   apiKey,
		model:    "gpt-3.5-turbo",
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// DeepSeek creates a provider backed by the DeepSeek chat API.
func DeepSeek(apiKey string) Provider {
	return &chatClient{
		provider: "DeepSeek",
		baseURL:  "https://api.deepseek.com/v1",
		apiKey:   apiKey,
		model:    "deepseek-chat",
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}
