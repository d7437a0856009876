package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestTimeoutError_Matching(t *testing.T) {
	err := TimeoutError("https://x.test/p", "#productTitle")

	if !IsTimeout(err) {
		t.Fatal("expected timeout error to match ErrTimeout")
	}
	if !errors.Is(err, &EngineError{Code: ErrCodeTimeout}) {
		t.Error("expected code-based match")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("timeout should not match ErrNotFound")
	}

	wrapped := fmt.Errorf("inspect product: %w", err)
	if !IsTimeout(wrapped) {
		t.Error("expected wrapped timeout to match")
	}
	if err.Details["selector"] != "#productTitle" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestIsTimeout_Other(t *testing.T) {
	if IsTimeout(context.DeadlineExceeded) {
		t.Error("bare context deadline should not be classified as an element timeout")
	}
	if IsTimeout(NotFoundError("u", "s")) {
		t.Error("not-found should not be a timeout")
	}
	if IsTimeout(nil) {
		t.Error("nil is not a timeout")
	}
}

func TestEngineError_Retry(t *testing.T) {
	err := NewEngineError(ErrCodeNetworkError, "navigate", ErrNetworkError)
	if err.IsRetryable() {
		t.Error("new errors should not be retryable by default")
	}
	if !err.WithRetry().IsRetryable() {
		t.Error("expected retryable after WithRetry")
	}
	want := "NETWORK_ERROR: navigate: network error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestEngineError_CodeMatchesSentinel(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		sentinel error
	}{
		{ErrCodeBrowserCrash, ErrBrowserCrash},
		{ErrCodeParseError, ErrParseError},
		{ErrCodeNetworkError, ErrNetworkError},
		{ErrCodeNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		err := fmt.Errorf("step: %w", NewEngineError(tt.code, "op", errors.New("cause")))
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("%s should match %v", tt.code, tt.sentinel)
		}
	}
	if errors.Is(NewEngineError(ErrCodeParseError, "op", nil), ErrBrowserCrash) {
		t.Error("parse errors must not match ErrBrowserCrash")
	}
}

func TestIsFatal(t *testing.T) {
	crash := NewEngineError(ErrCodeBrowserCrash, "browser session ended", nil)
	if !IsFatal(fmt.Errorf("navigate: %w", crash)) {
		t.Error("expected crash to be fatal")
	}
	// A crash surfacing through another code is still fatal
	if !IsFatal(NewEngineError(ErrCodeParseError, "read markup", crash)) {
		t.Error("expected wrapped crash to be fatal")
	}
	if IsFatal(TimeoutError("u", "s")) || IsFatal(nil) {
		t.Error("timeouts and nil are not fatal")
	}
}
