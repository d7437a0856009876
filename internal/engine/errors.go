// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrBrowserCrash    = errors.New("browser crashed")
	ErrTimeout         = errors.New("element not present in time")
	ErrNotFound        = errors.New("element not found")
	ErrNoPage          = errors.New("no page loaded")
	ErrNetworkError    = errors.New("network error")
	ErrParseError      = errors.New("failed to parse page")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeBrowserCrash ErrorCode = "BROWSER_CRASH"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
)

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retry      bool
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// codeSentinels maps each code to the sentinel it matches under errors.Is
var codeSentinels = map[ErrorCode]error{
	ErrCodeNotFound:     ErrNotFound,
	ErrCodeTimeout:      ErrTimeout,
	ErrCodeBrowserCrash: ErrBrowserCrash,
	ErrCodeNetworkError: ErrNetworkError,
	ErrCodeParseError:   ErrParseError,
}

// Is matches another EngineError with the same code, the sentinel of the
// code, or anything the underlying error matches.
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	if sentinel, ok := codeSentinels[e.Code]; ok && target == sentinel {
		return true
	}
	return errors.Is(e.Underlying, target)
}

// IsRetryable reports whether the failed operation may be attempted again
func (e *EngineError) IsRetryable() bool {
	return e.Retry
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Retry:      false,
		Details:    make(map[string]interface{}),
	}
}

// WithRetry marks the error as retryable
func (e *EngineError) WithRetry() *EngineError {
	e.Retry = true
	return e
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// TimeoutError reports that selector did not appear on url in time
func TimeoutError(url, selector string) *EngineError {
	return NewEngineError(ErrCodeTimeout, fmt.Sprintf("waiting for %q", selector), ErrTimeout).
		WithDetail("url", url).
		WithDetail("selector", selector)
}

// NotFoundError reports that selector matched nothing on url
func NotFoundError(url, selector string) *EngineError {
	return NewEngineError(ErrCodeNotFound, fmt.Sprintf("no element matches %q", selector), ErrNotFound).
		WithDetail("url", url).
		WithDetail("selector", selector)
}

// IsFatal reports whether err leaves the renderer unusable for the rest of the run
func IsFatal(err error) bool {
	return errors.Is(err, ErrBrowserCrash)
}

// IsTimeout reports whether err is an element-not-present-in-time failure
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
