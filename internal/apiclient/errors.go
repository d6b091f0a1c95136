package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionInvalid is matched by errors returned for calls the backend
// rejected because the bearer token is missing, invalid or expired.
var ErrSessionInvalid = errors.New("session is no longer valid")

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Code    string
	Message string

	invalid bool
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

func (e *Error) Unwrap() error {
	if e.invalid {
		return ErrSessionInvalid
	}
	return nil
}

var invalidTokenPhrases = []string{"invalid token", "token expired", "jwt"}

// IsInvalidSession reports whether a response means the token must be dropped.
func IsInvalidSession(status int, message string) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	msg := strings.ToLower(message)
	for _, phrase := range invalidTokenPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// MessageOf returns the backend's message for err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// parseError reads both the plain `{message}` body and the `{error:{code,message}}` envelope.
func parseError(status int, body []byte) *Error {
	out := &Error{Status: status}
	var payload struct {
		Message string          `json:"message"`
		Code    string          `json:"code"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		out.Message = strings.TrimSpace(string(body))
		if len(out.Message) > 200 {
			out.Message = out.Message[:200]
		}
		return out
	}
	out.Message = payload.Message
	out.Code = payload.Code
	if len(payload.Error) > 0 {
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		var plain string
		switch {
		case json.Unmarshal(payload.Error, &nested) == nil:
			if out.Message == "" {
				out.Message = nested.Message
			}
			if out.Code == "" {
				out.Code = nested.Code
			}
		case json.Unmarshal(payload.Error, &plain) == nil:
			if out.Message == "" {
				out.Message = plain
			}
		}
	}
	return out
}
