package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoProviders means every configured provider was unavailable or
// failed for the request.
var ErrNoProviders = errors.New("no generative provider produced a response")

// Cascade tries providers in rank order, skipping ones the health
// tracker has taken out of rotation.
type Cascade struct {
	Providers []Provider
	Health    *HealthTracker
	Logf      func(format string, args ...any)
}

// NewCascade builds a cascade over the given providers with a fresh
// health tracker.
func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{
		Providers: providers,
		Health:    NewHealthTracker(),
	}
}

// Generate runs the prompt through the first healthy provider that
// answers. Failures are recorded against the failing provider and the
// next one is tried.
func (c *Cascade) Generate(ctx context.Context, prompt string) (string, string, error) {
	if len(c.Providers) == 0 {
		return "", "", ErrNoProviders
	}

	var lastErr error
	for _, provider := range c.Providers {
		name := provider.Name()
		if !c.Health.Available(name) {
			c.logf("skipping %s: disabled", name)
			continue
		}

		text, err := provider.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			kind, message := classify(err)
			c.Health.RecordFailure(name, kind, message)
			c.logf("%s failed (%s): %s", name, kind, message)
			continue
		}

		c.Health.RecordSuccess(name)
		return text, name, nil
	}

	if lastErr != nil {
		return "", "", fmt.Errorf("%w: %s", ErrNoProviders, lastErr)
	}
	return "", "", ErrNoProviders
}

func (c *Cascade) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

func classify(err error) (ErrorKind, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, apiErr.Message
	}
	return KindTransient, err.Error()
}

// String lists the providers in rank order, for startup logging.
func (c *Cascade) String() string {
	names := make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, " -> ")
}
