package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned when a window token cannot be resolved.
// Windows are rejected before any store query runs.
var ErrInvalidWindow = errors.New("invalid window token")

// ErrInsufficientData is returned when a rule matched zero metric records.
// The rule is reported without a numeric score instead of scoring 0 or 100.
var ErrInsufficientData = errors.New("insufficient data for rule evaluation")

// FetchError is a classified failure from the source API. Transient errors
// (rate limits, timeouts, 5xx) are retried with backoff; fatal errors
// (auth, malformed request) abort the current partition immediately.
type FetchError struct {
	Op         string
	StatusCode int
	Code       int
	Message    string
	Transient  bool
}

func (e *FetchError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s: %s fetch error (status=%d code=%d): %s", e.Op, kind, e.StatusCode, e.Code, e.Message)
}

// IsTransientFetchError reports whether err is a retryable source API failure.
func IsTransientFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient
}

// IsFatalFetchError reports whether err is a non-retryable source API failure.
func IsFatalFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && !fe.Transient
}

// ConfigurationError is a malformed rule or sync parameter, rejected at load
// time before any evaluation or network call.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
