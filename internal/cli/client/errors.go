package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

var (
	// ErrTransport the backend could not be reached
	ErrTransport = errors.New("transport failure")
	// ErrNotFound the backend answered 404
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput the backend rejected the request payload
	ErrInvalidInput = errors.New("invalid input")
	// ErrServer the backend failed internally
	ErrServer = errors.New("server error")
	// ErrDecode a 2xx body could not be parsed
	ErrDecode = errors.New("malformed response")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Detail     string // "detail" field of the error body, if any
	Body       string
}

// Error implements error
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// UserMessage returns the server-supplied detail, or the status text
func (e *APIError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.StatusCode)
}

// Unwrap maps the status code onto the sentinel errors
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity:
		return ErrInvalidInput
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}

// newAPIError builds an APIError from a response body.
// FastAPI returns {"detail": "..."} or {"detail": [{...}]} for validation errors.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}

	var errBody struct {
		Detail interface{} `json:"detail"`
	}
	if err := sonic.Unmarshal(body, &errBody); err != nil {
		return apiErr
	}

	switch d := errBody.Detail.(type) {
	case string:
		apiErr.Detail = d
	case []interface{}:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]interface{}); ok {
				if msg, ok := m["msg"].(string); ok {
					msgs = append(msgs, msg)
				}
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	case nil:
	default:
		if b, err := sonic.Marshal(d); err == nil {
			apiErr.Detail = string(b)
		}
	}

	return apiErr
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDecode reports whether a successful response carried an unreadable body
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsTransport reports whether the backend could not be reached at all
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// AsAPIError extracts the APIError from err, if any
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage returns a message suitable for the user.
// Server-supplied details win over the fixed fallback.
func UserMessage(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
