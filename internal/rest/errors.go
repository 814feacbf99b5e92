package rest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned when no credential is available or the server
// rejected the one presented (HTTP 401). The request pipeline recovers from
// it by re-authorizing, unless the caller suppressed authentication.
var ErrUnauthorized = errors.New("unauthorized")

// ResourceError is a server-reported application error (any non-success
// status other than 401). ErrorCode and Fields let callers branch on the
// platform's error taxonomy; Body preserves the raw response for
// diagnostics, including when the body matched no known error envelope.
type ResourceError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Fields     []string
	Body       []byte
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resource error (HTTP %d)", e.StatusCode)
	if e.ErrorCode != "" {
		fmt.Fprintf(&b, " %s", e.ErrorCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " (fields: %s)", strings.Join(e.Fields, ", "))
	}
	return b.String()
}

// DecodingError indicates a validated response body did not match the
// caller's target shape. It is surfaced as-is, never silently defaulted.
type DecodingError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodingError) Unwrap() error {
	return e.Err
}
