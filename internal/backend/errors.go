package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the backend rejected the stored token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means the action was already performed (duplicate import or join request).
	ErrConflict = errors.New("conflict")
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps well-known status codes to sentinel errors so callers
// can branch with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusConflict:
		return ErrConflict
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}
