package llm

import (
	"fmt"
	"strings"
)

// ErrorKind classifies provider failures for health tracking.
type ErrorKind string

const (
	// KindAuth covers invalid or expired credentials.
	KindAuth ErrorKind = "auth"
	// KindQuota covers exhausted billing quota.
	KindQuota ErrorKind = "quota"
	// KindRateLimit covers temporary throttling.
	KindRateLimit ErrorKind = "rate_limit"
	// KindTransient covers server errors and network failures.
	KindTransient ErrorKind = "transient"
	// KindBadResponse covers responses that could not be used.
	KindBadResponse ErrorKind = "bad_response"
)

// APIError represents a failure from a generative provider.
type APIError struct {
	Provider   string
	StatusCode int
	Kind       ErrorKind
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d, %s)", e.Provider, e.Message, e.StatusCode, e.Kind)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Kind)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ClassifyStatus maps an HTTP status code and response body to an
// ErrorKind. Quota exhaustion sometimes arrives as a 429 whose body
// names insufficient_quota, so the body is consulted too.
func ClassifyStatus(status int, body string) ErrorKind {
	lower := strings.ToLower(body)
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 402 || strings.Contains(lower, "insufficient_quota"):
		return KindQuota
	case status == 429:
		return KindRateLimit
	case status >= 500:
		return KindTransient
	default:
		return KindBadResponse
	}
}
