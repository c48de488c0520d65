package routing

import (
	"encoding/json"
	"html"
	"net/http"
	"strings"
)

type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	TraceID string            `json:"trace_id"`
	Meta    ErrorEnvelopeMeta `json:"meta"`
}

type ErrorEnvelopeMeta struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

var errorMessages = map[string]string{
	"EMPLOYEE_NOT_FOUND":        "Employee not found or has no supervisor.",
	"SUPERVISOR_NOT_FOUND":      "New supervisor not found.",
	"SELF_SUPERVISION":          "An employee cannot supervise themselves.",
	"SUPERVISOR_IS_SUBORDINATE": "An employee cannot report to one of their own subordinates.",
	"EMPLOYEE_ID_INVALID":       "Employee and supervisor ids must be whole numbers.",
	"bad_json":                  "Request body is not valid JSON.",
	"internal_error":            "Internal error.",
	"not_found":                 "Not found.",
	"method_not_allowed":        "Method not allowed.",
}

func WriteError(w http.ResponseWriter, r *http.Request, rc RouteClass, status int, code string, message string) {
	message = normalizeErrorMessage(code, message)
	if isJSONOnly(rc) || wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(ErrorEnvelope{
			Code:    code,
			Message: message,
			TraceID: traceIDFromRequest(r),
			Meta: ErrorEnvelopeMeta{
				Path:   r.URL.Path,
				Method: r.Method,
			},
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte("<!doctype html><html><body>"))
	_, _ = w.Write([]byte(html.EscapeString(message)))
	_, _ = w.Write([]byte("</body></html>"))
}

// WriteJSON writes payload with status as a JSON document.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ErrorMessage returns the human message for code, or fallback.
func ErrorMessage(code string, fallback string) string {
	return normalizeErrorMessage(code, fallback)
}

func normalizeErrorMessage(code string, message string) string {
	message = strings.TrimSpace(message)
	if message != "" && message != code && !isGenericMessage(message) {
		return message
	}
	if m, ok := errorMessages[code]; ok {
		return m
	}
	if message != "" && message != code {
		return message
	}
	return humanizeCode(code)
}

// isGenericMessage reports whether message is a bare snake_case token such as
// an error sentinel text.
func isGenericMessage(message string) bool {
	return strings.Contains(message, "_") && !strings.ContainsAny(message, " \t")
}

func humanizeCode(code string) string {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", " "))
	if s == "" {
		return "Unknown error."
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || r.Header.Get("Accept") == "application/json; charset=utf-8"
}

func isJSONOnly(rc RouteClass) bool {
	return rc == RouteClassInternalAPI || rc == RouteClassOps
}

func traceIDFromRequest(r *http.Request) string {
	traceparent := strings.TrimSpace(r.Header.Get("traceparent"))
	if traceparent == "" {
		return ""
	}
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 {
		return ""
	}
	traceID := strings.ToLower(parts[1])
	if len(traceID) != 32 || traceID == "00000000000000000000000000000000" {
		return ""
	}
	for _, ch := range traceID {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return ""
		}
	}
	return traceID
}
