package client

import (
	"errors"
	"fmt"
	"net/http"

	domainerrors "github.com/recipebook/recipebook-client/internal/errors"
)

// Sentinel errors for API operations.
var (
	ErrUnauthorized     = errors.New("recipebook api: unauthorized")
	ErrForbidden        = errors.New("recipebook api: forbidden")
	ErrNotFound         = errors.New("recipebook api: not found")
	ErrBadRequest       = errors.New("recipebook api: bad request")
	ErrConflict         = errors.New("recipebook api: conflict")
	ErrRateLimited      = errors.New("recipebook api: rate limited by server")
	ErrServer           = errors.New("recipebook api: server error")
	ErrUnexpectedStatus = errors.New("recipebook api: unexpected status")
	ErrRejected         = errors.New("recipebook api: request rejected")
	ErrNetwork          = errors.New("recipebook api: network error")
	ErrDecode           = errors.New("recipebook api: malformed response")
)

// Error wraps an underlying error with request context.
type Error struct {
	Op      string // Operation: "login", "listRecipes", ...
	Method  string
	Path    string
	Status  int    // 0 when no response was received
	Message string // Server-provided message, if any
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("recipebook %s [%s %s %d]: %v", e.Op, e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("recipebook %s [%s %s]: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusError maps an HTTP status to its sentinel.
func statusError(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if status >= 500 {
			return ErrServer
		}
		return ErrUnexpectedStatus
	}
}

// Message returns the text to show the user for err: the server's message
// for API errors, the message of a domain error, or fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return fallback
}
