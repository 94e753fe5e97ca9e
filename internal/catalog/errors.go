package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single error boundary for the catalog service: every non-2xx
// response is classified into one of these. Callers only ever branch on
// IsAuthExpired versus everything else.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog: %s (status %d)", e.Message, e.StatusCode)
}

// IsAuthExpired reports whether err is the service rejecting the session
// cookie. The visitor must be signed out and returned to the entry view.
func IsAuthExpired(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.StatusCode == http.StatusUnauthorized
}
