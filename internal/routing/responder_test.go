package routing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteError_JSONForInternalAPI(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/org/api/employees:move", nil)
	req.Header.Set("traceparent", "00-4BF92F3577B34DA6A3CE929D0E0E4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	WriteError(rec, req, RouteClassInternalAPI, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "employee_not_found: employee_id=9")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content-type=%q", rec.Header().Get("Content-Type"))
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Code != "EMPLOYEE_NOT_FOUND" || env.TraceID != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("env=%+v", env)
	}
	if env.Message != "employee_not_found: employee_id=9" {
		t.Fatalf("message=%q", env.Message)
	}
	if env.Meta.Path != "/org/api/employees:move" || env.Meta.Method != http.MethodPost {
		t.Fatalf("meta=%+v", env.Meta)
	}
}

func TestWriteError_HTMLForUI(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/org/chart", nil)
	rec := httptest.NewRecorder()
	WriteError(rec, req, RouteClassUI, http.StatusUnprocessableEntity, "SELF_SUPERVISION", "<b>nope</b>")

	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("content-type=%q", rec.Header().Get("Content-Type"))
	}
	body := rec.Body.String()
	if !strings.Contains(body, "&lt;b&gt;nope&lt;/b&gt;") || strings.Contains(body, "<b>") {
		t.Fatalf("body=%q", body)
	}
}

func TestWriteError_UIAcceptJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/org/chart", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	WriteError(rec, req, RouteClassUI, http.StatusNotFound, "not_found", "")

	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content-type=%q", rec.Header().Get("Content-Type"))
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Message != "Not found." {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code, message, want string
	}{
		{"SELF_SUPERVISION", "", "An employee cannot supervise themselves."},
		{"SELF_SUPERVISION", "SELF_SUPERVISION", "An employee cannot supervise themselves."},
		{"SUPERVISOR_NOT_FOUND", "supervisor_not_found", "New supervisor not found."},
		{"SUPERVISOR_NOT_FOUND", "Manager 42 is gone", "Manager 42 is gone"},
		{"SOMETHING_ODD", "", "Something odd."},
		{"SOMETHING_ODD", "odd_token", "odd_token"},
		{"", "", "Unknown error."},
	}
	for _, tc := range cases {
		if got := ErrorMessage(tc.code, tc.message); got != tc.want {
			t.Errorf("ErrorMessage(%q,%q)=%q want %q", tc.code, tc.message, got, tc.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"id": 6})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"id":6}` {
		t.Fatalf("body=%q", rec.Body.String())
	}
}

func TestTraceIDFromRequest(t *testing.T) {
	t.Parallel()

	cases := []struct{ header, want string }{
		{"", ""},
		{"garbage", ""},
		{"00-00000000000000000000000000000000-00f067aa0ba902b7-01", ""},
		{"00-4bf92f3577b34da6a3ce929d0e0e47zz-00f067aa0ba902b7-01", ""},
		{"00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", "4bf92f3577b34da6a3ce929d0e0e4736"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("traceparent", tc.header)
		}
		if got := traceIDFromRequest(req); got != tc.want {
			t.Errorf("traceparent %q: got %q want %q", tc.header, got, tc.want)
		}
	}
}
