package auth

import (
	"errors"
	"fmt"
)

// ErrAuthorizationCanceled is returned when the user abandons the
// interactive browser session without completing authentication.
var ErrAuthorizationCanceled = errors.New("authorization canceled by user")

// MalformedResponseError indicates that a redirect URL did not carry a
// usable authorization payload. The raw URL is deliberately not included:
// it may contain credential material.
type MalformedResponseError struct {
	Reason string
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed authorization response: %s", e.Reason)
}
