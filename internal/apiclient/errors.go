package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the one failure shape callers see. Status is 0 when no HTTP
// response was received.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// failureMessage prefers the server's message, then the status text.
func failureMessage(status int, raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		if text := http.StatusText(status); text != "" {
			return text
		}
		return fmt.Sprintf("API Error: %d", status)
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if len(body.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body.Error, &nested) == nil && strings.TrimSpace(nested.Message) != "" {
			return strings.TrimSpace(nested.Message)
		}
		var plain string
		if json.Unmarshal(body.Error, &plain) == nil && strings.TrimSpace(plain) != "" {
			return strings.TrimSpace(plain)
		}
	}
	return fmt.Sprintf("API Error: %d", status)
}
