package llm

import "context"

// Provider is a generative text backend.
type Provider interface {
	// Name identifies the provider in logs and health reports.
	Name() string

	// Generate sends a prompt and returns the raw completion text.
	// Failures are returned as *APIError where classification is
	// possible.
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	// generationTemperature keeps enhancement output close to the
	// facts in the prompt.
	generationTemperature = 0.3

	// maxOutputTokens bounds a single enhancement response.
	maxOutputTokens = 800
)
