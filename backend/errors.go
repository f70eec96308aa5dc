package backend

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned for any HTTP 403. The transport has already
// invoked the session-expired hook by the time callers see this; stores must
// not record it as a regular error.
var ErrSessionExpired = errors.New("session expired")

// ErrConflict is returned for HTTP 409 on create operations (duplicate name).
var ErrConflict = errors.New("resource already exists")

// ErrNoSession is returned before any network call when no token is held.
var ErrNoSession = errors.New("no active session")

// APIError carries any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}
