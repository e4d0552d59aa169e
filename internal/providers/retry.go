package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const maxRetries = 3

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.body)
}

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

func isRetryable(err error) bool {
	var rl *rateLimitError
	var se *serverError
	return errors.As(err, &rl) || errors.As(err, &se)
}

// backoff is the base delay, doubled on every attempt.
var backoff = time.Second

func retryWithBackoff(ctx context.Context, retries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff << uint(attempt)):
			}
		}
	}
	return lastErr
}

func statusError(code int, body []byte) error {
	switch {
	case code == 429:
		return &rateLimitError{}
	case code == 401 || code == 403:
		return &authError{message: string(body)}
	case code >= 500:
		return &serverError{statusCode: code, body: string(body)}
	default:
		return fmt.Errorf("API error (status %d): %s", code, string(body))
	}
}
