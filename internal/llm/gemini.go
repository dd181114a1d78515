package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the model used for enhancement requests.
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini implements Provider using the Google generative AI client.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini provider.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: DefaultGeminiModel}, nil
}

func (g *Gemini) Name() string { return "Gemini" }

// Generate sends the prompt to Gemini and returns the completion text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(generationTemperature)
	model.SetMaxOutputTokens(maxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", g.wrapError(err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", &APIError{Provider: g.Name(), Kind: KindBadResponse, Message: err.Error(), Cause: err}
	}
	return text, nil
}

// Close releases resources held by the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *Gemini) wrapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &APIError{
			Provider:   g.Name(),
			StatusCode: apiErr.Code,
			Kind:       ClassifyStatus(apiErr.Code, apiErr.Message),
			Message:    apiErr.Message,
			Cause:      err,
		}
	}
	return &APIError{Provider: g.Name(), Kind: KindTransient, Message: err.Error(), Cause: err}
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
