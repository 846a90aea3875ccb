package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested game does not exist
	ErrNotFound = errors.New("game not found")

	// ErrServerOffline indicates the catalog API is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrInvalidReview indicates a review failed validation
	ErrInvalidReview = errors.New("invalid review")
)

// TransportError is a failure to get any HTTP response (dial, DNS, timeout).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes ErrServerOffline alongside the underlying cause
func (e *TransportError) Unwrap() []error {
	return []error{ErrServerOffline, e.Err}
}

// ProtocolError is a non-2xx status or a body that is not the expected JSON.
type ProtocolError struct {
	URL        string
	StatusCode int    // 0 when the status was fine but the body was malformed
	Message    string // server message when the error body was an envelope
	Err        error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s: malformed response: %v", e.URL, e.Err)
	}
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ApplicationError is a well-formed envelope whose status is not a success.
type ApplicationError struct {
	Status  string
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %q", e.Status)
}

// UserMessage returns a short text suitable for a status line.
// Application errors carrying a server message surface it; everything else is generic.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if errors.Is(err, ErrNotFound) {
		return "Game not found"
	}
	if errors.Is(err, ErrInvalidReview) {
		return err.Error()
	}
	if errors.Is(err, ErrServerOffline) {
		return "Server unreachable, try again"
	}
	return "Failed to load, try again"
}
