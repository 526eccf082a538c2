package dispatcher

import (
	"context"
	"errors"
	"strings"

	"github.com/local/studyguide/internal/ai"
)

// Error classes used for retry pacing and metrics labels.
const (
	classServer      = "server"
	classRateLimited = "rate_limited"
	classTimeout     = "timeout"
	classRefused     = "refused"
	classFatal       = "fatal"
	classOther       = "other"
)

// classify buckets a provider error.
func classify(err error) string {
	switch {
	case err == nil:
		return ""
	case isFatalError(err):
		return classFatal
	case ai.IsRateLimited(err):
		return classRateLimited
	case isTimeoutError(err):
		return classTimeout
	case ai.IsContentRefused(err):
		return classRefused
	}
	var statusErr *ai.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode >= 500 {
		return classServer
	}
	if isTransientError(err) {
		return classServer
	}
	return classOther
}

// isTransientError reports network-level failures worth the long back-off.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}

	var statusErr *ai.StatusError
	if errors.As(err, &statusErr) {
		// 5xx server errors and 429 are transient
		if statusErr.StatusCode >= 500 && statusErr.StatusCode < 600 {
			return true
		}
		if statusErr.StatusCode == 429 {
			return true
		}
	}

	// Network errors (connection issues, timeouts)
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "eof") {
		return true
	}

	return false
}

// isFatalError checks if error is fatal and should not be retried
func isFatalError(err error) bool {
	if err == nil {
		return false
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return true
	}
	if errors.Is(err, ai.ErrNoModel) {
		return true
	}

	// HTTP 4xx errors (except 408 and 429)
	var statusErr *ai.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
			statusErr.StatusCode != 429 && statusErr.StatusCode != 408 {
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "invalid request") ||
		strings.Contains(errStr, "validation failed") ||
		strings.Contains(errStr, "bad request") {
		return true
	}

	return false
}

// isTimeoutError checks if error is specifically a timeout
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) && rateLimitErr.Reason == "timeout" {
		return true
	}
	var statusErr *ai.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == 408 {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}
