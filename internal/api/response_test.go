package api

import (
	"errors"
	"testing"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name       string
		http       int
		body       string
		wantStatus int
		wantData   string
		wantErrors string
	}{
		{"envelope", 200, `{"status":208,"data":"queued"}`, 208, `"queued"`, ""},
		{"envelope errors", 200, `{"status":400,"data":null,"errors":["a","b"]}`, 400, "null", "a; b"},
		{"envelope message", 200, `{"status":500,"data":null,"message":"boom"}`, 500, "null", "boom"},
		{"bare string", 200, `"token"`, 200, `"token"`, ""},
		{"bare object", 201, `{"ID":1}`, 201, `{"ID":1}`, ""},
		{"empty", 204, ``, 204, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeResponse(tt.http, []byte(tt.body))
			if resp.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", resp.Status, tt.wantStatus)
			}
			if string(resp.Data) != tt.wantData {
				t.Errorf("Data = %s, want %s", resp.Data, tt.wantData)
			}
			if resp.Errors != tt.wantErrors {
				t.Errorf("Errors = %q, want %q", resp.Errors, tt.wantErrors)
			}
		})
	}
}

func TestResponse_StatusPredicates(t *testing.T) {
	tests := []struct {
		status    int
		succeeded bool
		deferred  bool
	}{
		{200, true, false},
		{201, true, false},
		{204, true, false},
		{208, false, true},
		{400, false, false},
	}
	for _, tt := range tests {
		r := &Response{Status: tt.status}
		if r.Succeeded() != tt.succeeded || r.Deferred() != tt.deferred {
			t.Errorf("status %d: Succeeded=%v Deferred=%v", tt.status, r.Succeeded(), r.Deferred())
		}
	}
}

func TestResponse_Decode(t *testing.T) {
	var out struct{ Name string }
	if err := (&Response{Data: []byte(`{"Name":"example.com"}`)}).Decode(&out); err != nil || out.Name != "example.com" {
		t.Errorf("Decode() = %v, %+v", err, out)
	}
	if err := (&Response{Data: []byte("null")}).Decode(&out); err == nil {
		t.Error("expected an error for null data")
	}
}

func TestResponse_Err(t *testing.T) {
	err := (&Response{HTTPStatus: 200, Status: 403}).Err()

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T", err)
	}
	if apiErr.Message != "unknown error (status 403)" || apiErr.Severity != SeverityError {
		t.Errorf("err = %+v", apiErr)
	}
}
