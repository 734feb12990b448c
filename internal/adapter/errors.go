package adapter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("bot unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("method not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")

	ErrTransportClosed = errors.New("transport closed")
	ErrEmptyToken      = errors.New("empty bot token")
)

// APIError is a failure declared by the remote API in its response envelope.
type APIError struct {
	// Method is the API method that failed.
	Method string
	// Code is the error_code of the envelope, or the HTTP status when absent.
	Code int
	// Description is the human-readable reason sent by the API.
	Description string
	// RetryAfter is the back-off requested by the API, zero when none.
	RetryAfter time.Duration

	status error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api error %d: %s", e.Method, e.Code, e.Description)
}

// Unwrap exposes the status sentinel matching Code, so errors.Is(err,
// ErrTooManyRequests) holds for a rate-limited call.
func (e *APIError) Unwrap() error {
	return e.status
}

// RetryAfter returns the back-off requested by the API, if err carries one.
func RetryAfter(err error) (time.Duration, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter, true
	}
	return 0, false
}

// redactedError hides the bot token that net/http puts into URL errors.
type redactedError struct {
	err    error
	secret string
}

func (e *redactedError) Error() string {
	return strings.ReplaceAll(e.err.Error(), e.secret, "<token>")
}

func (e *redactedError) Unwrap() error {
	return e.err
}
