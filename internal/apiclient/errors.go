package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error classes. Every *Error unwraps to at most one of these.
var (
	ErrTimeout        = errors.New("request timeout")
	ErrNetwork        = errors.New("network error")
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidResponse marks a 2xx reply declared as JSON that does not parse.
	ErrInvalidResponse = errors.New("invalid response body")
)

// User-facing messages for transport and expiry failures.
const (
	MsgTimeout         = "Request timeout - please check your connection and try again"
	MsgNetwork         = "Network error - please check your internet connection"
	MsgSessionExpired  = "Session expired. Please log in again."
	MsgInvalidResponse = "Invalid response from server"
)

// Error is the single error type returned by the client.
type Error struct {
	Message string
	// Status is the HTTP status, 0 when no response arrived.
	Status int
	// Data holds the server payload when it was valid JSON.
	Data json.RawMessage
	// SessionExpired is set only after the refresh endpoint rejected the
	// session with 400 or 401.
	SessionExpired bool
	// Err is the class sentinel or the underlying transport error.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsSessionExpired reports whether err is a confirmed session expiry.
func IsSessionExpired(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.SessionExpired
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func newSessionExpiredError(cause error) *Error {
	e := &Error{
		Message:        MsgSessionExpired,
		Status:         http.StatusUnauthorized,
		SessionExpired: true,
		Err:            ErrSessionExpired,
	}
	var refreshErr *Error
	if errors.As(cause, &refreshErr) {
		e.Data = refreshErr.Data
	}
	return e
}

// transportError wraps a failed attempt in a user-safe message while keeping
// the low-level cause reachable through errors.Is.
type transportError struct {
	class error
	cause error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%v: %v", e.class, e.cause)
}

func (e *transportError) Unwrap() []error {
	return []error{e.class, e.cause}
}

func newTransportError(timedOut bool, cause error) *Error {
	if timedOut {
		return &Error{Message: MsgTimeout, Err: &transportError{class: ErrTimeout, cause: cause}}
	}
	return &Error{Message: MsgNetwork, Err: &transportError{class: ErrNetwork, cause: cause}}
}

// parseAPIError builds an *Error from a non-2xx reply. The message prefers the
// server's "message" field, then "error", then a generic status line.
func parseAPIError(status int, body []byte) *Error {
	e := &Error{Status: status}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		e.Data = json.RawMessage(trimmed)

		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(e.Data, &payload); err == nil {
			switch {
			case payload.Message != "":
				e.Message = payload.Message
			case payload.Error != "":
				e.Message = payload.Error
			}
		}
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}
	return e
}
