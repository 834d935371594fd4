package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// RequestError is a non-2xx response.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *RequestError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// NetworkError is a transport failure. Its message is the per-operation fallback so that
// callers can surface it directly; the transport error is kept as the cause.
type NetworkError struct {
	Op      string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AsRequestError returns the *RequestError in err's chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

func IsUnauthorized(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.IsUnauthorized()
}

func IsNotFound(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.IsNotFound()
}

const maxPlainMessage = 300

// serverMessage extracts a human readable message from an error body, or "" when there is none.
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "{") {
		var payload struct {
			Message      string          `json:"message"`
			ErrorMessage string          `json:"errorMessage"`
			Error        json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return ""
		}
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.ErrorMessage != "":
			return payload.ErrorMessage
		}

		var nested struct {
			Message string `json:"message"`
		}
		if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &nested) == nil {
			return nested.Message
		}
		return ""
	}

	if strings.HasPrefix(trimmed, "<") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	if utf8.RuneCountInString(trimmed) > maxPlainMessage || strings.Contains(trimmed, "\n") {
		return ""
	}
	var quoted string
	if json.Unmarshal(body, &quoted) == nil {
		return quoted
	}
	return trimmed
}

func parseError(op operation, statusCode int, body []byte, requestID string) *RequestError {
	message := serverMessage(body)
	if message == "" {
		message = op.fallback
	}
	return &RequestError{
		Op:         op.name,
		StatusCode: statusCode,
		Message:    message,
		RequestID:  requestID,
	}
}

func networkError(op operation, err error) *NetworkError {
	return &NetworkError{
		Op:      op.name,
		Message: op.fallback,
		Err:     err,
	}
}

func (e *RequestError) GoString() string {
	return fmt.Sprintf("api.RequestError{Op:%q, StatusCode:%d, Message:%q}", e.Op, e.StatusCode, e.Message)
}
