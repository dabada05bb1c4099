package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx response. Code and Message come from Discord's JSON
// error body when it has one.
type HTTPError struct {
	Status  int
	Code    int
	Message string
	Errors  json.RawMessage
}

func (e *HTTPError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("discord: %d %s: %s (code %d)", e.Status, http.StatusText(e.Status), e.Message, e.Code)
	}
	if e.Message != "" {
		return fmt.Sprintf("discord: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("discord: %d %s", e.Status, http.StatusText(e.Status))
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status}
	var wire struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if json.Unmarshal(body, &wire) == nil {
		e.Code, e.Message, e.Errors = wire.Code, wire.Message, wire.Errors
	} else if len(body) > 0 && len(body) <= 512 {
		e.Message = string(body)
	}
	return e
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from Discord.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
