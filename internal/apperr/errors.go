// Package apperr holds the error taxonomy shared across the pipeline.
package apperr

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAuthTimeout   = errors.New("authorization timed out")
	ErrTokenExchange = errors.New("token exchange failed")
)

// APIError is a non-success response from an external HTTP collaborator.
type APIError struct {
	Op      string
	Status  int
	TraceID string
	Body    string
	Err     error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: status %d", e.Op, e.Status)
	if e.TraceID != "" {
		msg += " tid=" + e.TraceID
	}
	if e.Body != "" {
		msg += " body=" + e.Body
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsCredentialFailure reports whether err came from the credential flow.
// These errors abort a whole run.
func IsCredentialFailure(err error) bool {
	return errors.Is(err, ErrAuthTimeout) || errors.Is(err, ErrTokenExchange)
}

// Truncate shortens s to at most n bytes for log and error output without
// splitting a multi-byte rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
