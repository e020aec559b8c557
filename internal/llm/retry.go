package llm

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// transientMarkers maps substrings of Gemini error text to the status they
// signal. The SDK formats errors as "Error 429, Message: ..., Status: ...".
var transientMarkers = []struct {
	marker string
	status int
}{
	{"RESOURCE_EXHAUSTED", 429},
	{"Error 429", 429},
	{"UNAVAILABLE", 503},
	{"Error 503", 503},
	{"Error 500", 500},
	{"INTERNAL", 500},
	{"DEADLINE_EXCEEDED", 504},
	{"Error 504", 504},
}

// classify wraps rate-limit and server errors in RetryableError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, m := range transientMarkers {
		if strings.Contains(msg, m.marker) {
			return &RetryableError{StatusCode: m.status, Message: msg, Err: err}
		}
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
