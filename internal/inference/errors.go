package inference

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// QuotaError indicates the provider rejected a call because the rate or usage
// quota of the current credential is exhausted.
type QuotaError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *QuotaError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s quota exhausted (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s quota exhausted: %v", e.Provider, e.Err)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// NewQuotaError creates a QuotaError. retryAfterSecs is informational only; nothing retries.
func NewQuotaError(provider string, err error, retryAfterSecs int) *QuotaError {
	var retryAfter time.Duration
	if retryAfterSecs > 0 {
		retryAfter = time.Duration(retryAfterSecs) * time.Second
	}
	return &QuotaError{
		Err:        err,
		RetryAfter: retryAfter,
		Provider:   provider,
	}
}

// IsQuotaExhausted reports whether err, or anything it wraps, is a QuotaError.
func IsQuotaExhausted(err error) bool {
	var qErr *QuotaError
	return errors.As(err, &qErr)
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}
