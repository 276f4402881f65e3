package clients

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned for every 401 from the backend.
var ErrSessionExpired = errors.New("session expired or not authenticated")

// ErrUnreachable matches any *UnreachableError via errors.Is.
var ErrUnreachable = errors.New("backend unreachable")

// UnreachableError is a transport failure: connection refused, DNS, reset.
type UnreachableError struct {
	Port string
	Err  error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("could not connect to the server; check that it is running on port %s", e.Port)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func (e *UnreachableError) Is(target error) bool { return target == ErrUnreachable }

// APIError is any non-2xx, non-401 response. Detail is the backend's message verbatim.
type APIError struct {
	Status int
	Method string
	Path   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.Status)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
