package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable covers transport failures and backend 5xx responses.
	// Operations failing with it are user-retryable.
	ErrUnavailable = errors.New("backend: unavailable")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("backend: not found")

	// ErrRejected indicates the backend refused the request (4xx).
	ErrRejected = errors.New("backend: rejected")

	// ErrBadPayload indicates a response that could not be decoded into the
	// expected schema.
	ErrBadPayload = errors.New("backend: malformed response")
)

func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Request.URL.Path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, drainError(resp.Body))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, drainError(resp.Body))
	}
}
