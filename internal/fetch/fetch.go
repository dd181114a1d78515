// Package fetch provides generic HTTP fetching with retry and backoff.
// This package centralizes the request logic shared by the lookup adapters.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; BarcodeAgent/1.0)"

// Error represents an error during HTTP fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	MaxRetries int
	// Backoff is the base unit for linear backoff between retries.
	Backoff time.Duration
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		MaxRetries: 5,
		Backoff:    time.Second,
	}
}

// GetJSON performs a GET request and decodes the JSON response into out.
// Transient failures (network errors, 5xx) are retried up to MaxRetries
// with linear backoff; HTTP 429 backs off proportionally to the attempt
// number. Non-recoverable statuses return immediately.
func GetJSON(ctx context.Context, urlStr string, out any, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	attempts := opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	rateLimited := false
	for attempt := 0; attempt < attempts; attempt++ {
		if wait := retryWait(attempt, rateLimited, opts.Backoff); wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return &Error{URL: urlStr, Message: "canceled during backoff", Cause: err}
			}
		}
		rateLimited = false

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return &Error{URL: urlStr, Message: "failed to create request", Cause: err}
		}
		req.Header.Set("User-Agent", opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		for key, value := range opts.Headers {
			req.Header.Set(key, value)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = &Error{URL: urlStr, Message: "HTTP request failed", Retryable: true, Cause: err}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = &Error{URL: urlStr, Message: "failed to read response body", Retryable: true, Cause: readErr}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return &Error{URL: urlStr, Message: "failed to decode JSON response", StatusCode: resp.StatusCode, Cause: err}
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests:
			// Rate limited: wait proportionally to the attempt number.
			lastErr = &Error{URL: urlStr, Message: "rate limited", StatusCode: resp.StatusCode, Retryable: true}
			if err := sleep(ctx, time.Duration(attempt+1)*2*opts.Backoff); err != nil {
				return &Error{URL: urlStr, Message: "canceled during rate-limit wait", Cause: err}
			}
			rateLimited = true
		case resp.StatusCode >= 500:
			lastErr = &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode, Retryable: true}
		default:
			return &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
		}
	}

	if lastErr == nil {
		lastErr = &Error{URL: urlStr, Message: "no attempts made"}
	}
	return lastErr
}

// PageText fetches a URL and returns the main body text of the page.
// Used to widen the analysis text for candidates discovered via search.
func PageText(ctx context.Context, urlStr string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	client := &http.Client{Timeout: opts.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTTP request failed", Retryable: true, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return ExtractMainText(string(body))
}

// ExtractMainText parses HTML and returns the main body text with
// navigation, scripts, and other noise removed.
func ExtractMainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var mainContent *goquery.Selection
	for _, selector := range []string{"main", "article", ".product-details", ".content", "#content"} {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// cleanWhitespace normalizes whitespace in extracted text.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// retryWait returns the linear-backoff pause before the given attempt.
// The first attempt and attempts that already waited out a rate limit
// start immediately.
func retryWait(attempt int, afterRateLimit bool, backoff time.Duration) time.Duration {
	if attempt == 0 || afterRateLimit {
		return 0
	}
	return time.Duration(attempt) * backoff
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
