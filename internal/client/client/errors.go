package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMalformedReply   = errors.New("malformed reply")
	ErrInvalidServerURL = errors.New("invalid server url")
)

// APIError is a non-2xx reply from a collaborator.
type APIError struct {
	StatusCode int
	// Detail is the service's "detail" message, empty when it sent none.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error: %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401/403 replies.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Detail returns the collaborator-supplied message carried by err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
