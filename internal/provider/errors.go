package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable means no usable credential is configured. Syncs are skipped.
	ErrProviderUnavailable = errors.New("provider unavailable: no API key configured")
	// ErrProviderTimeout means the provider did not answer within the client timeout.
	ErrProviderTimeout = errors.New("provider timeout")
)

// ProviderError is a failed call to the provider. StatusCode is zero for
// transport failures.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := "provider " + e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the call may succeed.
func (e *ProviderError) Temporary() bool {
	if e.StatusCode == 0 {
		return e.Err != nil
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrProviderTimeout) {
		return true
	}
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.Temporary()
	}
	return false
}
