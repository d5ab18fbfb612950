package searchapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDecode is returned when a response body is not a valid envelope.
	ErrDecode = errors.New("searchapi: malformed response")
	// ErrNoToken is returned by authenticated calls on a client without a token.
	ErrNoToken = errors.New("searchapi: access token required")
)

// APIError is a non-2xx answer from the Search API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("search api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("search api: HTTP %d", e.StatusCode)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
