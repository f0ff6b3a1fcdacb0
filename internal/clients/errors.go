package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx backend response with its message extracted.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.StatusCode)
}

// IsAccessDenied reports whether err is a 403 from the backend, which the
// gated SCADA endpoints use to mean "add a firewall rule first".
func IsAccessDenied(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsAuthRequired reports whether err is a 401 from the backend.
func IsAuthRequired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorFromResponse pulls the structured message out of an error body.
// The backend uses {"detail": ...}; the console's own endpoints use
// {"error": ...}. Anything unparseable falls back to the raw body.
func errorFromResponse(status int, body []byte) *APIError {
	var structured struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Detail != "" {
			msg = structured.Detail
		} else if structured.Error != "" {
			msg = structured.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{StatusCode: status, Message: msg}
}
