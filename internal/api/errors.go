package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the server. Callers that need to act on
// the class of failure (not found vs anything else) match it with errors.As;
// connectivity failures never produce an *Error, so the two are always
// distinguishable.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a server 404 response.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
