package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"domain0/d0ctl/internal/domain"
)

// Severity tells the UI how loudly to surface an error.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Error is a failed API call: an HTTP error status or an unsuccessful
// envelope.
type Error struct {
	HTTPStatus int
	Status     int
	Severity   Severity
	Message    string
	// Wait is the server's Retry-After hint, if it sent one.
	Wait time.Duration

	sentinel error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the domain sentinel matching the HTTP status, if any.
func (e *Error) Unwrap() error { return e.sentinel }

// Retryable reports server-side and throttling failures.
func (e *Error) Retryable() bool {
	return e.HTTPStatus >= 500 || e.HTTPStatus == http.StatusTooManyRequests
}

// RetryAfter returns the server's requested delay before the next attempt.
func (e *Error) RetryAfter() time.Duration { return e.Wait }

// retryAfter parses a Retry-After header given in seconds or as an
// HTTP date. It returns zero when the header is absent or unparseable.
func retryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// errorFromHTTP maps an HTTP error status and body to an *Error.
//
// For 4xx, a string body is shown as-is; an object body contributes its
// "errors" or "message" field; otherwise a generic permission hint is used.
// For 5xx, only the status text is shown.
func errorFromHTTP(status int, raw []byte) *Error {
	e := &Error{HTTPStatus: status, Status: status, sentinel: sentinelFor(status)}
	if status >= 500 {
		e.Severity = SeverityError
		e.Message = http.StatusText(status)
		if e.Message == "" {
			e.Message = fmt.Sprintf("server error (%d)", status)
		}
		return e
	}

	e.Severity = SeverityWarning
	e.Message = messageFromBody(status, raw)
	return e
}

func messageFromBody(status int, raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	fallback := fmt.Sprintf("you may lack permission for this operation (%d)", status)
	if len(trimmed) == 0 {
		if text := http.StatusText(status); text != "" {
			return text
		}
		return fallback
	}

	switch trimmed[0] {
	case '{':
		var body struct {
			Errors  json.RawMessage `json:"errors"`
			Message string          `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return fallback
		}
		if msg := flattenMessages(body.Errors); msg != "" {
			return msg
		}
		if body.Message != "" {
			return body.Message
		}
		return fallback
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil && s != "" {
			return s
		}
		return fallback
	case '[':
		return fallback
	}
	return strings.TrimSpace(string(trimmed))
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return nil
}

// DomainError is an application-level failure reported inside a
// successful HTTP response, such as a DNS list whose inner success flag
// is false.
type DomainError struct {
	Status   int
	Messages []string
}

func (e *DomainError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("api: request failed (status %d)", e.Status)
	}
	return strings.Join(e.Messages, "; ")
}
