package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// StatusError is a non-2xx server response. RetryAfter is only set for
// 429 responses that carried a Retry-After header.
type StatusError struct {
	Code       int
	Message    string
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

// IsRateLimited reports whether err is an HTTP 429 response. The
// second return is the server's Retry-After hint, zero when absent.
func IsRateLimited(err error) (time.Duration, bool) {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		return se.RetryAfter, true
	}
	return 0, false
}

// IsBadRequest reports whether err is an HTTP 400 response or a
// server-side turn rejection. Both are benign races between the UI and
// the server rather than real failures.
func IsBadRequest(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		if se.Code == http.StatusBadRequest {
			return true
		}
		return strings.Contains(strings.ToLower(se.Message), "not your turn")
	}
	return false
}
