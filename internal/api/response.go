package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// StatusPendingApproval is the envelope status the API uses when a
// mutation was captured as a change request instead of being executed.
const StatusPendingApproval = http.StatusAlreadyReported

// Response is a decoded API envelope.
type Response struct {
	// HTTPStatus is the status line of the HTTP response.
	HTTPStatus int

	// Status is the envelope's own status field. It falls back to
	// HTTPStatus when the body carries no envelope.
	Status int

	// Data is the raw envelope payload.
	Data json.RawMessage

	// Errors is the envelope's error text, flattened to one string.
	Errors string
}

type envelope struct {
	Status  *int            `json:"status"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Message string          `json:"message"`
}

func decodeResponse(httpStatus int, raw []byte) *Response {
	resp := &Response{HTTPStatus: httpStatus, Status: httpStatus}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return resp
	}
	if trimmed[0] != '{' {
		resp.Data = json.RawMessage(trimmed)
		return resp
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || (env.Status == nil && env.Data == nil) {
		resp.Data = json.RawMessage(trimmed)
		return resp
	}
	if env.Status != nil {
		resp.Status = *env.Status
	}
	resp.Data = env.Data
	resp.Errors = flattenMessages(env.Errors)
	if resp.Errors == "" {
		resp.Errors = env.Message
	}
	return resp
}

// Succeeded reports a 2xx envelope status other than pending approval.
func (r *Response) Succeeded() bool {
	return r.Status >= 200 && r.Status < 300 && r.Status != StatusPendingApproval
}

// Deferred reports whether the mutation was turned into a change request.
func (r *Response) Deferred() bool { return r.Status == StatusPendingApproval }

// Decode unmarshals the envelope data into out.
func (r *Response) Decode(out any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return fmt.Errorf("api: response carries no data")
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("api: failed to decode response: %w", err)
	}
	return nil
}

// Text returns the data as a string: the decoded value when it is a JSON
// string, the raw payload otherwise.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Data, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Data))
}

// Err describes an unsuccessful envelope as an *Error.
func (r *Response) Err() error {
	msg := r.Errors
	if msg == "" {
		msg = fmt.Sprintf("unknown error (status %d)", r.Status)
	}
	return &Error{HTTPStatus: r.HTTPStatus, Status: r.Status, Severity: SeverityError, Message: msg}
}

// flattenMessages accepts a string, an array of strings, or an array of
// {code, message} objects and joins them with "; ".
func flattenMessages(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return strings.TrimSpace(string(raw))
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			parts = append(parts, text)
			continue
		}
		var obj struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Message != "" {
			if obj.Code != 0 {
				parts = append(parts, fmt.Sprintf("[%d] %s", obj.Code, obj.Message))
			} else {
				parts = append(parts, obj.Message)
			}
		}
	}
	return strings.Join(parts, "; ")
}
