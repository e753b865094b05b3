package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoToken is returned when an authenticated call is made while signed out
var ErrNoToken = errors.New("not signed in, please log in")

// Error is a non-success response from the API
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	status := http.StatusText(e.StatusCode)
	if status == "" {
		status = "unexpected status"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, status)
	}
	return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, 0 if none
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
